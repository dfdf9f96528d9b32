package ports

import "github.com/aalvaropc/gmscraper/internal/domain"

// ReportStore persists scan reports.
type ReportStore interface {
	SaveReport(report domain.ScanReport) (id string, err error)
	ListReports() ([]domain.ReportRef, error)
	LoadReport(id string) ([]byte, error)
}
