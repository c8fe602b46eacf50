package services

import (
	"errors"
	"html"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/sport-matcher/internal/apperr"
	"github.com/microcosm-cc/bluemonday"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var strictPolicy = bluemonday.StrictPolicy()

// sanitizeText strips all markup from user-supplied text. The policy
// escapes what it keeps, so entities are decoded back to plain text.
func sanitizeText(s string) string {
	return strings.TrimSpace(html.UnescapeString(strictPolicy.Sanitize(s)))
}

// forUpdate adds SELECT ... FOR UPDATE to the next query on tx.
func forUpdate(tx *gorm.DB) *gorm.DB {
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// notFound maps gorm.ErrRecordNotFound to the given domain error.
func notFound(err error, domainErr *apperr.Error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domainErr
	}
	return err
}

// outcome is the metrics label for a capacity-checked operation.
func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	if e, ok := apperr.From(err); ok {
		return e.Code
	}
	return "error"
}

// remaining is max(0, max-count), or nil when there is no cap.
func remaining(max *int, count int64) *int {
	if max == nil {
		return nil
	}
	r := int64(*max) - count
	if r < 0 {
		r = 0
	}
	n := int(r)
	return &n
}

func hasCapacity(max *int, count int64) bool {
	return max == nil || count < int64(*max)
}

func now() time.Time {
	return time.Now().UTC()
}
