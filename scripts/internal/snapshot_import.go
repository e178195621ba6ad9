package internal

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/shariahscreen/shariahscreen/internal/api/dto"
	"github.com/shariahscreen/shariahscreen/internal/cache"
	"github.com/shariahscreen/shariahscreen/internal/config"
	"github.com/shariahscreen/shariahscreen/internal/locks"
	"github.com/shariahscreen/shariahscreen/internal/logger"
	"github.com/shariahscreen/shariahscreen/internal/repository/memory"
	"github.com/shariahscreen/shariahscreen/internal/service"
)

// importWorkers bounds the number of concurrent snapshot creations
const importWorkers = 8

// SnapshotRow represents a row in the ratio snapshot CSV file. Columns follow
// the persisted dataset field names; ratio columns may be blank.
type SnapshotRow struct {
	Symbol                            string
	Sector                            string
	Industry                          string
	DebtToAssets                      *decimal.Decimal
	InterestIncomeToRevenue           *decimal.Decimal
	CashAndInterestSecuritiesToAssets *decimal.Decimal
	ReceivablesToAssets               *decimal.Decimal
	ObservedAt                        time.Time
}

// SnapshotImportSummary contains statistics about the import process
type SnapshotImportSummary struct {
	TotalRows        int
	SnapshotsCreated int
	RowsSkipped      int
	Errors           []string
}

type snapshotImportScript struct {
	cfg       *config.Configuration
	log       *logger.Logger
	screening service.ScreeningService
	summary   SnapshotImportSummary
	summaryMu sync.Mutex
}

func newSnapshotImportScript() (*snapshotImportScript, error) {
	cfg, err := config.NewConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.NewLogger(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	params := service.ServiceParams{
		Logger:           log,
		Config:           cfg,
		Cache:            cache.NewInMemoryCache(),
		Locker:           locks.NewManager(),
		SnapshotRepo:     memory.NewRatioSnapshotStore(),
		SubscriptionRepo: memory.NewSubscriptionStore(),
		WatchlistRepo:    memory.NewWatchlistStore(),
	}

	return &snapshotImportScript{
		cfg:       cfg,
		log:       log,
		screening: service.NewScreeningService(params),
	}, nil
}

// parseSnapshotCSV parses the ratio snapshot CSV file
func (s *snapshotImportScript) parseSnapshotCSV(filePath string) ([]SnapshotRow, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	csvReader := csv.NewReader(file)

	// Read header
	_, err = csvReader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	var rows []SnapshotRow

	for {
		record, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			s.log.Errorw("Failed to read CSV record", "error", err)
			continue
		}

		// SYMBOL, Sector, Industry, 4 ratio columns, date
		if len(record) < 8 {
			s.log.Warnw("Skipping row with insufficient columns", "columns", len(record))
			continue
		}

		observedAt, err := time.Parse("2006-01-02", strings.TrimSpace(record[7]))
		if err != nil {
			s.log.Warnw("Failed to parse observation date, skipping row",
				"date_string", record[7], "error", err)
			continue
		}

		row := SnapshotRow{
			Symbol:     strings.TrimSpace(record[0]),
			Sector:     strings.TrimSpace(record[1]),
			Industry:   strings.TrimSpace(record[2]),
			ObservedAt: observedAt,
		}

		ok := true
		for i, target := range []**decimal.Decimal{
			&row.DebtToAssets,
			&row.InterestIncomeToRevenue,
			&row.CashAndInterestSecuritiesToAssets,
			&row.ReceivablesToAssets,
		} {
			raw := strings.TrimSpace(record[3+i])
			if raw == "" {
				continue
			}
			value, err := decimal.NewFromString(raw)
			if err != nil {
				s.log.Warnw("Failed to parse ratio, skipping row",
					"symbol", row.Symbol, "column", 3+i, "value", raw, "error", err)
				ok = false
				break
			}
			*target = &value
		}
		if !ok {
			continue
		}

		rows = append(rows, row)
	}

	s.summary.TotalRows = len(rows)
	s.log.Infow("Parsed snapshot CSV", "total_rows", len(rows))
	return rows, nil
}

func (s *snapshotImportScript) recordError(symbol string, err error) {
	s.summaryMu.Lock()
	defer s.summaryMu.Unlock()
	s.summary.RowsSkipped++
	s.summary.Errors = append(s.summary.Errors, fmt.Sprintf("%s: %v", symbol, err))
}

func (s *snapshotImportScript) recordCreated() {
	s.summaryMu.Lock()
	defer s.summaryMu.Unlock()
	s.summary.SnapshotsCreated++
}

// importRows pushes the parsed rows through the screening service with a
// bounded worker pool
func (s *snapshotImportScript) importRows(ctx context.Context, rows []SnapshotRow) {
	jobs := make(chan SnapshotRow)
	var wg sync.WaitGroup

	for i := 0; i < importWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for row := range jobs {
				req := &dto.CreateSnapshotRequest{
					Symbol:                            row.Symbol,
					Sector:                            row.Sector,
					Industry:                          row.Industry,
					DebtToAssets:                      row.DebtToAssets,
					InterestIncomeToRevenue:           row.InterestIncomeToRevenue,
					CashAndInterestSecuritiesToAssets: row.CashAndInterestSecuritiesToAssets,
					ReceivablesToAssets:               row.ReceivablesToAssets,
					ObservedAt:                        row.ObservedAt,
				}

				resp, err := s.screening.CreateSnapshot(ctx, req)
				if err != nil {
					s.log.Errorw("Failed to create snapshot",
						"symbol", row.Symbol, "error", err)
					s.recordError(row.Symbol, err)
					continue
				}

				s.recordCreated()
				s.log.Debugw("Imported snapshot",
					"symbol", resp.Symbol,
					"classification", resp.Classification,
					"confidence_percentage", resp.ConfidencePercentage)
			}
		}()
	}

	for _, row := range rows {
		jobs <- row
	}
	close(jobs)
	wg.Wait()
}

func (s *snapshotImportScript) printSummary() {
	s.log.Infow("Snapshot import finished",
		"total_rows", s.summary.TotalRows,
		"created", s.summary.SnapshotsCreated,
		"skipped", s.summary.RowsSkipped,
		"errors", len(s.summary.Errors))
	for _, e := range s.summary.Errors {
		s.log.Warnw("Import error", "detail", e)
	}
}

// ImportSnapshots imports ratio snapshots from the CSV file at filePath and
// reports the computed verdict for each imported row
func ImportSnapshots(filePath string) error {
	script, err := newSnapshotImportScript()
	if err != nil {
		return err
	}

	rows, err := script.parseSnapshotCSV(filePath)
	if err != nil {
		return err
	}

	script.importRows(context.Background(), rows)
	script.printSummary()

	if len(script.summary.Errors) > 0 {
		return fmt.Errorf("import completed with %d errors", len(script.summary.Errors))
	}
	return nil
}
