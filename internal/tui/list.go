package tui

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/sevenoy/GeminiMeds/models"
)

// medicationRow is one dashboard line: the medication, its logs newest
// first and the intake recorded for the current day, if any.
type medicationRow struct {
	medication models.Medication
	logs       []models.MedicationLog
	today      *models.MedicationLog
}

func buildRows(medications []models.Medication, logs []models.MedicationLog, now time.Time) []medicationRow {
	byMedication := make(map[string][]models.MedicationLog, len(medications))
	for _, l := range logs {
		byMedication[l.MedicationID] = append(byMedication[l.MedicationID], l)
	}

	rows := make([]medicationRow, 0, len(medications))
	for _, m := range medications {
		own := byMedication[m.ID]
		slices.SortFunc(own, func(a, b models.MedicationLog) int {
			return b.TakenAt.Compare(a.TakenAt)
		})

		row := medicationRow{medication: m, logs: own}
		for i := range own {
			if sameDay(own[i].TakenAt, now) {
				row.today = &own[i]
				break
			}
		}
		rows = append(rows, row)
	}

	slices.SortFunc(rows, func(a, b medicationRow) int {
		return cmp.Or(
			cmp.Compare(a.medication.ScheduledTime, b.medication.ScheduledTime),
			cmp.Compare(a.medication.Name, b.medication.Name),
		)
	})
	return rows
}

func sameDay(a, b time.Time) bool {
	a, b = a.Local(), b.Local()
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

func statusName(s models.LogStatus) string {
	switch s {
	case models.LogStatusOnTime:
		return "вовремя"
	case models.LogStatusLate:
		return "с опозданием"
	case models.LogStatusManual:
		return "вручную"
	case models.LogStatusSuspect:
		return "слишком рано"
	default:
		return "?"
	}
}

func syncMark(l models.MedicationLog) string {
	if l.IsDirty() {
		return " *"
	}
	return ""
}

func (r medicationRow) todayText() string {
	if r.today == nil {
		return "ожидается"
	}
	return fmt.Sprintf("принято %s, %s%s", r.today.TakenAt.Local().Format("15:04"), statusName(r.today.Status), syncMark(*r.today))
}

func renderList(rows []medicationRow, idx int, loading bool) string {
	if loading && len(rows) == 0 {
		return "Загрузка..."
	}
	if len(rows) == 0 {
		return "Нет лекарств. n добавить"
	}

	var b strings.Builder
	for i, row := range rows {
		cursor := "  "
		name := fitText(row.medication.Name, 24)
		if i == idx {
			cursor = "> "
			name = selectedStyle.Render(name)
		}
		fmt.Fprintf(&b, "%s%s %s  %-24s %-12s %s\n",
			cursor,
			accentMark(row.medication.Accent),
			row.medication.ScheduledTime,
			name,
			fitText(valueOrDash(row.medication.Dosage), 12),
			row.todayText(),
		)
	}
	return strings.TrimRight(b.String(), "\n")
}
