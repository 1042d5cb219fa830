package main

import (
	"fmt"
	"strings"

	"github.com/mrouhi13/laum/internal/services"
	"github.com/xuri/excelize/v2"
)

// Column layout of every sheet; the first row is a header.
const (
	colTitle = iota
	colSubtitle
	colEvent
	colContent
	colImageCaption
	colReference
	colAuthor
	colTags
	colTranslationOf
)

const minColumns = colContent + 1

type rowInput struct {
	Row   int
	Input services.PageInput
}

// readSheet turns the rows of a sheet into page inputs. The sheet name is
// the page language. Rows without a title or content are reported and skipped.
func readSheet(f *excelize.File, sheet string) ([]rowInput, []error) {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, []error{fmt.Errorf("sheet %s: %w", sheet, err)}
	}

	var (
		inputs []rowInput
		errs   []error
	)
	language := strings.ToLower(strings.TrimSpace(sheet))
	active := true

	for i, row := range rows {
		if i == 0 || isBlank(row) { // Skip header and empty rows
			continue
		}
		if len(row) < minColumns || cell(row, colTitle) == "" || cell(row, colContent) == "" {
			errs = append(errs, fmt.Errorf("sheet %s row %d: title and content are required", sheet, i+1))
			continue
		}

		inputs = append(inputs, rowInput{
			Row: i + 1,
			Input: services.PageInput{
				Language:      language,
				Title:         cell(row, colTitle),
				Subtitle:      cell(row, colSubtitle),
				Event:         cell(row, colEvent),
				Content:       cell(row, colContent),
				ImageCaption:  cell(row, colImageCaption),
				Reference:     cell(row, colReference),
				Author:        cell(row, colAuthor),
				Tags:          splitTags(cell(row, colTags)),
				IsActive:      &active,
				TranslationOf: cell(row, colTranslationOf),
			},
		})
	}
	return inputs, errs
}

func cell(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// splitTags accepts Latin and Persian commas as separators.
func splitTags(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == '،'
	})
	tags := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			tags = append(tags, f)
		}
	}
	return tags
}
