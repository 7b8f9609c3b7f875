package main

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/MikeMC777/ordenes-ecom/internal/apperr"
	"github.com/MikeMC777/ordenes-ecom/internal/httpx"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

// pathID reads a UUID path parameter, rendering a 400 when it is malformed.
func pathID(c *gin.Context, name string) (string, bool) {
	raw := c.Param(name)
	id, err := uuid.Parse(raw)
	if err != nil {
		httpx.AbortWithError(c, apperr.Validation("Invalid %s: %q is not a valid UUID", name, raw))
		return "", false
	}
	return id.String(), true
}

// queryUUID reads an optional UUID query parameter.
func queryUUID(c *gin.Context, name string) (string, error) {
	v := c.Query(name)
	if v == "" {
		return "", nil
	}
	id, err := uuid.Parse(v)
	if err != nil {
		return "", apperr.Validation("Invalid %s: %q is not a valid UUID", name, v)
	}
	return id.String(), nil
}

// paging reads ?limit and ?offset. Out of range values are clamped.
func paging(c *gin.Context) (limit, offset int, err error) {
	limit, offset = defaultLimit, 0
	if v := c.Query("limit"); v != "" {
		if limit, err = strconv.Atoi(v); err != nil {
			return 0, 0, apperr.Validation("limit must be an integer")
		}
	}
	if v := c.Query("offset"); v != "" {
		if offset, err = strconv.Atoi(v); err != nil {
			return 0, 0, apperr.Validation("offset must be an integer")
		}
	}
	if limit <= 0 || limit > maxLimit {
		limit = defaultLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset, nil
}

// queryBool parses an optional boolean query parameter.
func queryBool(c *gin.Context, name string) (*bool, error) {
	v := c.Query(name)
	if v == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(strings.ToLower(v))
	if err != nil {
		return nil, apperr.Validation("%s must be true or false", name)
	}
	return &b, nil
}

// queryDate accepts RFC 3339 timestamps or plain dates. A plain date used as
// an upper bound covers the whole day.
func queryDate(c *gin.Context, name string, endOfDay bool) (*time.Time, error) {
	v := c.Query(name)
	if v == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.DateOnly, v)
	if err != nil {
		return nil, apperr.Validation("%s must be a date (YYYY-MM-DD) or an RFC 3339 timestamp", name)
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}
