package service

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/avetra/committee-portal/log"
	"github.com/avetra/committee-portal/metrics"
	"github.com/avetra/committee-portal/model"
	"github.com/avetra/committee-portal/store"
)

// defaultExportColumns is the union of both backend schemas minus the photo
// bytes, used when the backend does not report its own columns.
var defaultExportColumns = []string{
	"id", "submission_id", "name", "committee",
	"social_media_links", "email", "phone", "photo_filename", "submission_date",
}

// ExportFilename returns the auto-generated, timestamp-suffixed CSV name.
func ExportFilename() string {
	return "committee_registrations_" + time.Now().Format("20060102_150405") + ".csv"
}

// ExportCSV writes all records as CSV: a header row with the active
// backend's column names, then one row per record, most recent first.
// Photo bytes are never included. Returns the number of records written.
func (s *Service) ExportCSV(ctx context.Context, w io.Writer) (int, error) {
	columns := defaultExportColumns
	if lister, ok := s.store.(store.ColumnLister); ok {
		columns = lister.Columns()
	}

	subs, err := s.store.List(ctx, store.Filter{})
	if err != nil {
		return 0, err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(columns); err != nil {
		return 0, err
	}
	for _, sub := range subs {
		row := make([]string, len(columns))
		for i, col := range columns {
			row[i] = csvField(&sub, col)
		}
		if err := cw.Write(row); err != nil {
			return 0, err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return 0, err
	}

	metrics.Exports.Inc()
	return len(subs), nil
}

// ExportCSVFile writes the export to the named file, or to the
// auto-generated filename when name is empty. Returns the filename used and
// the record count.
func (s *Service) ExportCSVFile(ctx context.Context, name string) (string, int, error) {
	if name == "" {
		name = ExportFilename()
	}
	f, err := os.Create(name)
	if err != nil {
		return "", 0, err
	}
	n, err := s.ExportCSV(ctx, f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return "", 0, err
	}
	log.Infof("service.export_csv: wrote %d records to %s", n, name)
	return name, n, nil
}

func csvField(sub *model.Submission, col string) string {
	switch col {
	case "id":
		return strconv.Itoa(sub.ID)
	case "submission_id":
		return sub.SubmissionID
	case "name":
		return sub.Name
	case "committee":
		return sub.Committee
	case "social_media_links":
		return sub.SocialMediaLinks
	case "email":
		return sub.Email
	case "phone":
		return sub.Phone
	case "photo_filename":
		return sub.PhotoFilename
	case "submission_date":
		return sub.SubmissionDate.Format(time.RFC3339)
	default:
		return ""
	}
}
