package tui

import (
	"fmt"
	"strings"
)

// detailLogLimit caps the history shown on the detail page.
const detailLogLimit = 10

func timeSourceName(source string) string {
	switch source {
	case "exif":
		return "фото"
	case "system":
		return "устройство"
	case "manual":
		return "вручную"
	default:
		return source
	}
}

func renderDetail(row medicationRow) string {
	m := row.medication

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n\n", accentMark(m.Accent), m.Name)
	fmt.Fprintf(&b, "Дозировка: %s\n", valueOrDash(m.Dosage))
	fmt.Fprintf(&b, "Время:     %s\n", m.ScheduledTime)
	fmt.Fprintf(&b, "Сегодня:   %s\n", row.todayText())
	fmt.Fprintf(&b, "Изменено:  %s\n\n", m.UpdatedAt.Local().Format("2006-01-02 15:04"))

	if len(row.logs) == 0 {
		b.WriteString("Приёмов пока нет")
		return b.String()
	}

	b.WriteString("Последние приёмы:\n")
	for i, l := range row.logs {
		if i == detailLogLimit {
			fmt.Fprintf(&b, "  ... ещё %d\n", len(row.logs)-detailLogLimit)
			break
		}
		photo := ""
		if l.ImagePath != "" || len(l.Photo) > 0 {
			photo = " [фото]"
		}
		fmt.Fprintf(&b, "  %s  %-14s %s%s%s\n",
			l.TakenAt.Local().Format("2006-01-02 15:04"),
			statusName(l.Status),
			timeSourceName(string(l.TimeSource)),
			photo,
			syncMark(l),
		)
	}
	b.WriteString("\n* ещё не отправлено на сервер")
	return b.String()
}
