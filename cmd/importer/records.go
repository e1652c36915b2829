package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"mgnrega-api/internal/models"
)

// DistrictRecord is one row of a districts CSV: district,state
type DistrictRecord struct {
	District string
	State    string
}

// SummaryRecord is one row of a summaries CSV:
// district,state,total_workers,total_wages,households,employment_days,work_completed,budget_utilization,last_updated
type SummaryRecord struct {
	District    string
	State       string
	Stats       models.SummaryStats
	LastUpdated *time.Time
}

// MonthlyRecord is one row of a monthly CSV: district,state,month(YYYY-MM),workers,wages
type MonthlyRecord struct {
	District   string
	State      string
	MonthStart time.Time
	Workers    int64
	Wages      int64
}

func readCSV(filePath string, minColumns int, row func(line int, record []string) error) error {
	file, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // Allow variable number of fields
	reader.TrimLeadingSpace = true

	// Skip header
	if _, err := reader.Read(); err != nil {
		return fmt.Errorf("failed to read header: %w", err)
	}

	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read record: %w", err)
		}
		if len(record) < minColumns {
			return fmt.Errorf("line %d: invalid record length: %d, expected at least %d columns", line, len(record), minColumns)
		}
		for i := range record {
			record[i] = strings.TrimSpace(record[i])
		}
		if record[0] == "" || record[1] == "" {
			return fmt.Errorf("line %d: district and state are required", line)
		}
		if err := row(line, record); err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
	}
}

func parseDistricts(filePath string) ([]DistrictRecord, error) {
	var records []DistrictRecord
	err := readCSV(filePath, 2, func(_ int, r []string) error {
		records = append(records, DistrictRecord{District: r[0], State: r[1]})
		return nil
	})
	return records, err
}

func parseSummaries(filePath string) ([]SummaryRecord, error) {
	var records []SummaryRecord
	err := readCSV(filePath, 8, func(_ int, r []string) error {
		var s SummaryRecord
		s.District, s.State = r[0], r[1]

		ints := []*int64{&s.Stats.TotalWorkers, &s.Stats.TotalWages, &s.Stats.Households, &s.Stats.EmploymentDays}
		for i, dst := range ints {
			v, err := strconv.ParseInt(r[2+i], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid integer %q", r[2+i])
			}
			*dst = v
		}

		var err error
		if s.Stats.WorkCompleted, err = strconv.ParseFloat(r[6], 64); err != nil {
			return fmt.Errorf("invalid work completed %q", r[6])
		}
		if s.Stats.BudgetUtilization, err = strconv.ParseFloat(r[7], 64); err != nil {
			return fmt.Errorf("invalid budget utilization %q", r[7])
		}

		if len(r) > 8 && r[8] != "" {
			t, err := time.Parse(time.DateOnly, r[8])
			if err != nil {
				return fmt.Errorf("invalid last updated date %q", r[8])
			}
			s.LastUpdated = &t
		}

		if err := s.Stats.Validate(); err != nil {
			return err
		}
		records = append(records, s)
		return nil
	})
	return records, err
}

func parseMonthly(filePath string) ([]MonthlyRecord, error) {
	var records []MonthlyRecord
	err := readCSV(filePath, 5, func(_ int, r []string) error {
		month, err := time.Parse("2006-01", r[2])
		if err != nil {
			return fmt.Errorf("invalid month %q, expected YYYY-MM", r[2])
		}
		workers, err := strconv.ParseInt(r[3], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid workers %q", r[3])
		}
		wages, err := strconv.ParseInt(r[4], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid wages %q", r[4])
		}

		point := models.MonthlyPoint{Month: r[2], Workers: workers, Wages: wages}
		if err := models.ValidateSeries([]models.MonthlyPoint{point}); err != nil {
			return err
		}
		records = append(records, MonthlyRecord{
			District:   r[0],
			State:      r[1],
			MonthStart: month,
			Workers:    workers,
			Wages:      wages,
		})
		return nil
	})
	return records, err
}
