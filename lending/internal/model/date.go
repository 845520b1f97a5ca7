package model

import (
	"database/sql/driver"
	"fmt"
	"time"

	"cloud.google.com/go/civil"
	"github.com/jackc/pgx/v5/pgtype"
)

// Date is a calendar day, encoded as YYYY-MM-DD.
type Date struct {
	civil.Date
}

// NewDate returns the UTC calendar day of t.
func NewDate(t time.Time) Date {
	return Date{Date: civil.DateOf(t.UTC())}
}

func ParseDate(s string) (Date, error) {
	d, err := civil.ParseDate(s)
	if err != nil {
		return Date{}, err
	}
	return Date{Date: d}, nil
}

func (d Date) AddDays(n int) Date {
	return Date{Date: d.Date.AddDays(n)}
}

// DaysUntil returns the number of calendar days from d to other.
func (d Date) DaysUntil(other Date) int {
	return other.Date.DaysSince(d.Date)
}

func (d Date) Before(other Date) bool {
	return d.Date.Before(other.Date)
}

func (d Date) After(other Date) bool {
	return d.Date.After(other.Date)
}

func (d Date) IsZero() bool {
	return d.Date == civil.Date{}
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := string(b)
	if s == "null" || s == `""` {
		return nil
	}
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("model.Date: invalid value %s", s)
	}
	return d.UnmarshalText([]byte(s[1 : len(s)-1]))
}

func (d *Date) Scan(src any) error {
	if b, ok := src.([]byte); ok {
		src = string(b)
	}
	if s, ok := src.(string); ok && len(s) > len(time.DateOnly) {
		src = s[:len(time.DateOnly)]
	}

	var pd pgtype.Date
	if err := pd.Scan(src); err != nil {
		return fmt.Errorf("model.Date: %w", err)
	}
	if !pd.Valid {
		*d = Date{}
		return nil
	}
	*d = Date{Date: civil.DateOf(pd.Time)}
	return nil
}

func (d Date) Value() (driver.Value, error) {
	return d.String(), nil
}
