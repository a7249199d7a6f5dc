package dto

import "github.com/headstoneworld/orders-api/internal/models"

// ReportQuery filters the activity log by an inclusive date range.
// Dates arrive as YYYY-MM-DD from the client.
type ReportQuery struct {
	StartDate string `validate:"required,datetime=2006-01-02"`
	EndDate   string `validate:"required,datetime=2006-01-02"`
}

// ReportResponse is the filtered log plus the deposit total.
type ReportResponse struct {
	Reports       []models.ActivityEvent `json:"reports"`
	SumOfDeposits int                    `json:"sumOfDeposits"`
}
