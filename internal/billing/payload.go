package billing

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/MikeMC777/ordenes-ecom/internal/config"
	"github.com/MikeMC777/ordenes-ecom/internal/customer"
	"github.com/MikeMC777/ordenes-ecom/internal/order"
)

const (
	operationType     = "010"
	operationTypeCode = "0101"
	docTypeInvoice    = "01"
	currencyPEN       = "PEN"
	paymentCash       = "Contado"
	issuerDocType     = "6"
	unitCode          = "NIU"
	priceTypeCode     = "01"
	classification    = "10123123"
	igvPercent        = 18
	icbperFactor      = 0.5
)

// Amount is a money value rendered as an unquoted JSON number with two decimals.
type Amount struct{ decimal.Decimal }

func amt(d decimal.Decimal) Amount { return Amount{d} }

func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.StringFixed(2)), nil
}

type Party struct {
	DocumentTypeCode string `json:"codigoTipoDocumento"`
	DocumentNumber   string `json:"numDocumento"`
	LegalName        string `json:"razonSocial"`
	Ubigeo           string `json:"ubigeo"`
	City             string `json:"ciudad"`
	District         string `json:"distrito"`
	Province         string `json:"provincia"`
	Address          string `json:"direccion"`
	CommercialName   string `json:"nombreComercial,omitempty"`
	Branch           string `json:"sucursal,omitempty"`
}

type Tax struct {
	Amount           Amount `json:"monto"`
	CategoryID       string `json:"idCategoria"`
	Percent          int    `json:"porcentaje"`
	IGVAffectation   string `json:"codigoAfectacionIgv"`
	TributeCode      string `json:"codigoTributo"`
	TributeName      string `json:"nombreTributo"`
	InterTributeCode string `json:"codigoInterTributo"`
}

type Line struct {
	ID             string  `json:"id"`
	UnitCode       string  `json:"codigoUnidad"`
	Name           string  `json:"nombre"`
	Units          int     `json:"unidades"`
	Currency       string  `json:"moneda"`
	UnitPrice      Amount  `json:"precioUnitario"`
	ListPrice      Amount  `json:"precioLista"`
	AmountNoTax    Amount  `json:"montoSinImpuesto"`
	TaxAmount      Amount  `json:"montoImpuestos"`
	TotalAmount    Amount  `json:"montoTotal"`
	ICBPERAmount   int     `json:"montoIcbper"`
	ICBPERFactor   float64 `json:"factorIcbper"`
	DiscountAmount int     `json:"montoDescuento"`
	PriceTypeCode  string  `json:"codigoTipoPrecio"`
	Taxes          []Tax   `json:"impuestos"`
	Classification string  `json:"codigoClasificacion"`
}

type Totals struct {
	Exonerated       int    `json:"totalOpExoneradas"`
	Unaffected       int    `json:"totalOpInafectas"`
	Taxed            Amount `json:"totalOpGravadas"`
	Taxes            Amount `json:"totalImpuestos"`
	WithoutTaxes     Amount `json:"totalSinImpuestos"`
	WithTaxes        Amount `json:"totalConImpuestos"`
	Payable          Amount `json:"totalPagar"`
	GlobalDiscount   int    `json:"totalDescuentoGlobal"`
	ProductDiscounts Amount `json:"totalDescuentoProductos"`
}

type Quota struct {
	Number  string `json:"numero"`
	Amount  Amount `json:"importe"`
	DueDate string `json:"fechaVencimiento"`
}

// Document is the Billme EnviarBoletaFactura request body.
type Document struct {
	OperationType     string  `json:"tipoOperacion"`
	Series            string  `json:"serie"`
	Correlative       string  `json:"correlativo"`
	IssueDate         string  `json:"fechaEmision"`
	IssueTime         string  `json:"horaEmision"`
	DueDate           string  `json:"fechaVencimiento"`
	OperationTypeCode string  `json:"codigoTipoOperacion"`
	DocumentTypeCode  string  `json:"codigoTipoDocumento"`
	Currency          string  `json:"moneda"`
	CreditAmount      int     `json:"montoCredito"`
	PaymentMethod     string  `json:"formaPago"`
	IGV               Amount  `json:"igv"`
	ICBPER            int     `json:"icbper"`
	Quotas            []Quota `json:"cuotas"`
	Issuer            Party   `json:"emisor"`
	Customer          Party   `json:"cliente"`
	Totals            Totals  `json:"totales"`
	Lines             []Line  `json:"productos"`
}

// Numbering is the series and correlative stamped on each document.
type Numbering struct {
	Series      string
	Correlative string
}

// DocumentTypeCode maps a customer document type to its fiscal code.
func DocumentTypeCode(t customer.TypeDocument) string {
	switch t {
	case customer.TypeRUC:
		return "6"
	case customer.TypeDNI:
		return "1"
	case customer.TypeCE:
		return "4"
	default:
		return "6"
	}
}

// BuildPayload renders a hydrated order as a fiscal document issued by issuer at now.
func BuildPayload(o order.Order, issuer config.Company, num Numbering, now time.Time) Document {
	doc := Document{
		OperationType:     operationType,
		Series:            num.Series,
		Correlative:       num.Correlative,
		IssueDate:         now.Format(time.DateOnly),
		IssueTime:         now.Format(time.TimeOnly),
		DueDate:           now.Format(time.DateOnly),
		OperationTypeCode: operationTypeCode,
		DocumentTypeCode:  docTypeInvoice,
		Currency:          currencyPEN,
		PaymentMethod:     paymentCash,
		IGV:               amt(o.Tax),
		Quotas:            []Quota{},
		Issuer: Party{
			DocumentTypeCode: issuerDocType,
			DocumentNumber:   issuer.DocumentNumber,
			LegalName:        issuer.Name,
			Ubigeo:           issuer.Ubigeo,
			City:             issuer.City,
			District:         issuer.State,
			Province:         issuer.State,
			Address:          issuer.Address,
			CommercialName:   issuer.CommercialName,
			Branch:           issuer.Branch,
		},
		Lines: make([]Line, 0, len(o.Items)),
	}

	if c := o.Customer; c != nil {
		doc.Customer = Party{
			DocumentTypeCode: DocumentTypeCode(c.TypeDocument),
			DocumentNumber:   c.NumberDocument,
			LegalName:        c.FullName(),
		}
	}
	if a := o.BillingAddress; a != nil {
		doc.Customer.City = a.City
		doc.Customer.District = a.State
		doc.Customer.Province = a.State
		doc.Customer.Address = a.Street
		doc.Customer.Ubigeo = a.PostalCode
	}

	var taxed, discounts decimal.Decimal
	for _, it := range o.Items {
		igv := order.IGV(it.Price)
		line := Line{
			UnitCode:       unitCode,
			Units:          it.Quantity,
			Currency:       currencyPEN,
			UnitPrice:      amt(it.Price),
			ListPrice:      amt(order.PriceWithIGV(it.Price)),
			AmountNoTax:    amt(it.Price),
			TaxAmount:      amt(igv),
			TotalAmount:    amt(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity)))),
			ICBPERFactor:   icbperFactor,
			PriceTypeCode:  priceTypeCode,
			Classification: classification,
			Taxes: []Tax{{
				Amount:           amt(igv),
				CategoryID:       "S",
				Percent:          igvPercent,
				IGVAffectation:   "10",
				TributeCode:      "1000",
				TributeName:      "IGV",
				InterTributeCode: "VAT",
			}},
		}
		if p := it.Product; p != nil {
			line.ID = p.SKU
			line.Name = p.Name
		}
		doc.Lines = append(doc.Lines, line)
		taxed = taxed.Add(it.Price)
		discounts = discounts.Add(it.Discount)
	}

	doc.Totals = Totals{
		Taxed:            amt(taxed),
		Taxes:            amt(o.Tax),
		WithoutTaxes:     amt(o.Total.Sub(o.Tax)),
		WithTaxes:        amt(o.Total),
		Payable:          amt(o.Total),
		ProductDiscounts: amt(discounts),
	}
	return doc
}
