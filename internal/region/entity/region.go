package entity

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Region is a named place shown on the public map.
type Region struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Key       string    `db:"region_key" json:"key"`
	Lat       float64   `db:"lat" json:"lat"`
	Lon       float64   `db:"lon" json:"lon"`
	Type      string    `db:"type" json:"type"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// RegionInput is the writable part of a region, shared by create and update.
// Length limits match the narrowest column across the supported databases.
type RegionInput struct {
	Name string      `json:"name" validate:"required,max=128"`
	Key  string      `json:"key" validate:"required,max=64"`
	Lat  *Coordinate `json:"lat" validate:"required"`
	Lon  *Coordinate `json:"lon" validate:"required"`
	Type string      `json:"type" validate:"required,max=32"`
}

// Normalize trims the text fields in place.
func (in *RegionInput) Normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Key = strings.TrimSpace(in.Key)
	in.Type = strings.TrimSpace(in.Type)
}

// Coordinate is a latitude or longitude. It decodes from a JSON number or a
// numeric string and refuses anything that is not a finite number.
type Coordinate float64

func (c *Coordinate) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	raw := string(b)
	if len(b) > 0 && b[0] == '"' {
		if err := json.Unmarshal(b, &raw); err != nil {
			return err
		}
		raw = strings.TrimSpace(raw)
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("coordinate %s is not a number", b)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Errorf("coordinate %s is not finite", b)
	}
	*c = Coordinate(f)
	return nil
}

func (c Coordinate) Float64() float64 { return float64(c) }
