// internal/drive/downloader.go
package drive

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/mytimarket/shop-reports/internal/domain"
	"github.com/mytimarket/shop-reports/internal/ingest"
)

// FolderContents is everything report-relevant found in one Drive folder:
// flattened order lines from every CSV export plus commission rates from the
// most recently modified workbook.
type FolderContents struct {
	Lines     []domain.RawOrderLine
	Overrides []domain.CommissionOverride
	Files     []string
}

// Downloader pulls order exports and commission workbooks out of a Drive
// folder and parses them in memory.
type Downloader struct {
	service *Service
}

func NewDownloader(s *Service) *Downloader {
	return &Downloader{service: s}
}

// FetchFolder reads every CSV in the folder as an order export and the newest
// XLSX as the commission workbook. Files that fail to parse are skipped with
// a warning so one bad upload cannot block the whole batch.
func (d *Downloader) FetchFolder(ctx context.Context, folderPath string) (*FolderContents, error) {
	folderID, err := d.service.FindFolderByPath(folderPath)
	if err != nil {
		return nil, err
	}

	files, err := d.service.ListFiles(folderID)
	if err != nil {
		return nil, err
	}

	contents := &FolderContents{}
	var workbook *File
	for _, f := range files {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		switch strings.ToLower(filepath.Ext(f.Name)) {
		case ".csv":
			lines, err := d.fetchOrderExport(f)
			if err != nil {
				log.Warn().Err(err).Str("file", f.Name).Msg("skipping unparseable order export")
				continue
			}
			contents.Lines = append(contents.Lines, lines...)
			contents.Files = append(contents.Files, f.Name)
		case ".xlsx":
			// Last modified workbook wins.
			if workbook == nil || f.ModifiedTime > workbook.ModifiedTime {
				workbook = f
			}
		}
	}

	if workbook != nil {
		overrides, err := d.fetchWorkbook(workbook)
		if err != nil {
			log.Warn().Err(err).Str("file", workbook.Name).Msg("skipping unparseable commission workbook")
		} else {
			contents.Overrides = overrides
			contents.Files = append(contents.Files, workbook.Name)
		}
	}

	return contents, nil
}

func (d *Downloader) fetchOrderExport(f *File) ([]domain.RawOrderLine, error) {
	var buf bytes.Buffer
	if err := d.service.DownloadFile(f.ID, &buf); err != nil {
		return nil, fmt.Errorf("download %s: %w", f.Name, err)
	}
	lines, err := ingest.ParseOrders(&buf)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", f.Name, err)
	}
	return lines, nil
}

func (d *Downloader) fetchWorkbook(f *File) ([]domain.CommissionOverride, error) {
	var buf bytes.Buffer
	if err := d.service.DownloadFile(f.ID, &buf); err != nil {
		return nil, fmt.Errorf("download %s: %w", f.Name, err)
	}
	overrides, err := ingest.ParseCommissionWorkbook(bytes.NewReader(buf.Bytes()))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", f.Name, err)
	}
	return overrides, nil
}
