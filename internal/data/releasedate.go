package data

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ReleaseDateLayout is the MM/DD/YYYY format accepted and returned by the API
const ReleaseDateLayout = "01/02/2006"

var ErrInvalidReleaseDateFormat = errors.New("invalid release_date format")

// ReleaseDate is a calendar date stored in a postgres `date` column
type ReleaseDate time.Time

func ParseReleaseDate(value string) (ReleaseDate, error) {
	t, err := time.Parse(ReleaseDateLayout, strings.TrimSpace(value))
	if err != nil {
		return ReleaseDate{}, ErrInvalidReleaseDateFormat
	}

	return ReleaseDate(t), nil
}

func (d ReleaseDate) String() string {
	return time.Time(d).Format(ReleaseDateLayout)
}

// IsZero lets `omitzero` drop unset dates from json responses
func (d ReleaseDate) IsZero() bool {
	return time.Time(d).IsZero()
}

// value receiver so that both ReleaseDate and *ReleaseDate satisfy json.Marshaler
func (d ReleaseDate) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(d.String())), nil
}

func (d *ReleaseDate) UnmarshalJSON(jsonValue []byte) error {
	unquoted, err := strconv.Unquote(string(jsonValue))
	if err != nil {
		return ErrInvalidReleaseDateFormat
	}

	parsed, err := ParseReleaseDate(unquoted)
	if err != nil {
		return err
	}

	*d = parsed
	return nil
}

// Scan implements sql.Scanner. lib/pq hands `date` columns over as time.Time
func (d *ReleaseDate) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*d = ReleaseDate{}
	case time.Time:
		*d = ReleaseDate(v)
	case []byte:
		return d.scanString(string(v))
	case string:
		return d.scanString(v)
	default:
		return fmt.Errorf("cannot scan %T into ReleaseDate", src)
	}

	return nil
}

func (d *ReleaseDate) scanString(value string) error {
	t, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return err
	}

	*d = ReleaseDate(t)
	return nil
}

// Value implements driver.Valuer
func (d ReleaseDate) Value() (driver.Value, error) {
	return time.Time(d), nil
}
