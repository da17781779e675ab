// internal/domain/models/report.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ReportSnapshot is a user-saved chart snapshot. Snapshots are stored
// server-side per user (the original design kept them in browser storage,
// which made them invisible across devices and unbounded per profile).
type ReportSnapshot struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    string             `bson:"user_id" json:"user_id"`
	Title     string             `bson:"title,omitempty" json:"title,omitempty"`
	ChartType string             `bson:"chart_type" json:"chart_type"`
	CropType  string             `bson:"crop_type,omitempty" json:"crop_type,omitempty"`
	Filters   map[string]string  `bson:"filters,omitempty" json:"filters,omitempty"`
	Data      []TrendPoint       `bson:"data,omitempty" json:"data,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// TrendPoint is one point of a historical-statistics time series.
type TrendPoint struct {
	Year  int     `bson:"year" json:"year"`
	Value float64 `bson:"value" json:"value"`
}
