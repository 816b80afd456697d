package models

import (
	"time"

	"github.com/paulmach/orb/geojson"
)

type Customer struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type CustomerCreate struct {
	Name string `json:"name" validate:"required,max=255"`
}

// CustomerServiceLink attaches a service to a customer.
type CustomerServiceLink struct {
	ServiceID int64 `json:"service_id" validate:"required,gt=0"`
}

type CustomerService struct {
	ID         int64  `json:"id"`
	CustomerID string `json:"customer_id"`
	ServiceID  int64  `json:"service_id"`
}

type Service struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

type ServiceCreate struct {
	Name        string  `json:"name" validate:"required,max=255"`
	Description *string `json:"description"`
}

// AOI is an area of interest owned by a customer.
type AOI struct {
	ID         int64             `json:"id"`
	Name       string            `json:"name"`
	Geom       *geojson.Geometry `json:"geom"`
	CustomerID string            `json:"customer_id"`
	Country    string            `json:"country"`
	ServiceIDs []int64           `json:"service_ids"`
}

type AOICreate struct {
	Name       string        `json:"name" validate:"required"`
	Geom       GeometryInput `json:"geom" validate:"required"`
	CustomerID string        `json:"customer_id" validate:"required,uuid"`
	Country    string        `json:"country" validate:"required"`
	ServiceIDs []int64       `json:"service_ids" validate:"omitempty,dive,gt=0"`
}

// AOIFilter narrows an AOI listing. Nil fields impose no constraint.
type AOIFilter struct {
	ID         *int64
	CustomerID *string
	ServiceID  *int64
	Country    *string
}

type NDVIStatistic struct {
	ID         int64     `json:"id"`
	AOIID      int64     `json:"aoi_id"`
	Date       string    `json:"date"`
	MinNDVI    float64   `json:"min_ndvi"`
	MaxNDVI    float64   `json:"max_ndvi"`
	MedianNDVI float64   `json:"median_ndvi"`
	CreatedAt  time.Time `json:"created_at"`
	Change     *float64  `json:"change"`
}

type NDVIStatsCreate struct {
	AOIID      int64    `json:"aoi_id" validate:"required,gt=0"`
	Date       string   `json:"date" validate:"required,isodate"`
	MinNDVI    *float64 `json:"min_ndvi" validate:"required"`
	MaxNDVI    *float64 `json:"max_ndvi" validate:"required"`
	MedianNDVI *float64 `json:"median_ndvi" validate:"required"`
	Change     *float64 `json:"change"`
}

// NDVIDerive carries raw NDVI pixel values for one AOI and date; the
// statistics are computed by the server.
type NDVIDerive struct {
	AOIID  int64     `json:"aoi_id" validate:"required,gt=0"`
	Date   string    `json:"date" validate:"required,isodate"`
	Values []float64 `json:"values" validate:"required,min=1,dive,gte=-1,lte=1"`
}

type StatsFilter struct {
	AOIID *int64
	Date  *string
}

type AlgaeStatistic struct {
	ID        int64     `json:"id"`
	AOI       int64     `json:"aoi"`
	Datetime  time.Time `json:"datetime"`
	MinValue  float64   `json:"min_value"`
	MaxValue  float64   `json:"max_value"`
	MeanValue float64   `json:"mean_value"`
}

type AlgaeStatsCreate struct {
	AOIID    int64     `json:"aoi_id" validate:"required,gt=0"`
	Datetime time.Time `json:"datetime" validate:"required"`
	Min      *float64  `json:"min" validate:"required"`
	Max      *float64  `json:"max" validate:"required"`
	Mean     *float64  `json:"mean" validate:"required"`
}

type Vessel struct {
	ID                  int64             `json:"id"`
	Name                string            `json:"name"`
	Type                *string           `json:"type"`
	Classification      *string           `json:"classification"`
	Certainty           *string           `json:"certainty"`
	CertaintyPercentage *float64          `json:"certainty_percentage"`
	Geom                *geojson.Geometry `json:"geom"`
	AOIID               int64             `json:"aoi_id"`
	LocationID          *int64            `json:"location_id"`
	OrderDate           *string           `json:"order_date"`
}

type VesselCreate struct {
	Name                string        `json:"name" validate:"required,max=255"`
	Type                *string       `json:"type" validate:"omitempty,max=100"`
	Classification      *string       `json:"classification" validate:"omitempty,max=100"`
	Certainty           *string       `json:"certainty" validate:"omitempty,max=100"`
	CertaintyPercentage *float64      `json:"certainty_percentage" validate:"omitempty,gte=0,lte=100"`
	Geom                GeometryInput `json:"geom" validate:"required"`
	AOIID               int64         `json:"aoi_id" validate:"required,gt=0"`
	LocationID          *int64        `json:"location_id"`
	OrderDate           *string       `json:"order_date" validate:"omitempty,isodate"`
}

// VesselUpdate is a partial update: only non-nil fields are written.
type VesselUpdate struct {
	Name                *string        `json:"name" validate:"omitempty,min=1,max=255"`
	Type                *string        `json:"type" validate:"omitempty,max=100"`
	Classification      *string        `json:"classification" validate:"omitempty,max=100"`
	Certainty           *string        `json:"certainty" validate:"omitempty,max=100"`
	CertaintyPercentage *float64       `json:"certainty_percentage" validate:"omitempty,gte=0,lte=100"`
	Geom                *GeometryInput `json:"geom"`
	AOIID               *int64         `json:"aoi_id" validate:"omitempty,gt=0"`
	LocationID          *int64         `json:"location_id"`
	OrderDate           *string        `json:"order_date" validate:"omitempty,isodate"`
}

type OilSlick struct {
	ID                  int64             `json:"id"`
	Type                string            `json:"type"`
	SourceVessel        *string           `json:"source_vessel"`
	CertaintyPercentage *int64            `json:"certainty_percentage"`
	Geom                *geojson.Geometry `json:"geom"`
}

type OilSlickCreate struct {
	Type                string        `json:"type" validate:"required"`
	SourceVessel        *string       `json:"source_vessel"`
	CertaintyPercentage *int64        `json:"certainty_percentage" validate:"omitempty,gte=0,lte=100"`
	Geom                GeometryInput `json:"geom" validate:"required"`
}

type Location struct {
	ID            int64             `json:"id"`
	Name          string            `json:"name"`
	Description   *string           `json:"description"`
	Country       *string           `json:"country"`
	ISO3          *string           `json:"iso3"`
	CustomerID    *string           `json:"customer_id"`
	Coords        *geojson.Geometry `json:"coords"`
	CountryCoords *geojson.Geometry `json:"countrycoords"`
}

type LocationCreate struct {
	Name          string         `json:"name" validate:"required,max=255"`
	Description   *string        `json:"description"`
	Country       *string        `json:"country" validate:"omitempty,max=100"`
	ISO3          *string        `json:"iso3" validate:"omitempty,len=3"`
	CustomerID    *string        `json:"customer_id" validate:"omitempty,uuid"`
	Coords        *GeometryInput `json:"coords"`
	CountryCoords *GeometryInput `json:"countrycoords"`
}

// MessageResponse is returned by operations without a body of their own.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Detail interface{} `json:"detail"`
}
