package utils

import "time"

// AddMonths menambah bulan kalender dengan clamp ke akhir bulan target.
// 31 Jan + 1 bulan = 28/29 Feb, bukan 2/3 Mar seperti time.AddDate.
func AddMonths(t time.Time, months int) time.Time {
	year, month, day := t.Date()

	m := int(month) - 1 + months
	targetYear := year + m/12
	targetMonth := time.Month(m%12 + 1)
	if m < 0 {
		targetYear = year + (m-11)/12
		targetMonth = time.Month((m%12+12)%12 + 1)
	}

	lastDay := daysInMonth(targetYear, targetMonth)
	if day > lastDay {
		day = lastDay
	}

	return time.Date(targetYear, targetMonth, day, 0, 0, 0, 0, t.Location())
}

func daysInMonth(year int, month time.Month) int {
	// Hari ke-0 bulan berikutnya = hari terakhir bulan ini.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// TruncateToDay membuang komponen jam, supaya selisih hari dihitung per
// tanggal kalender, bukan per 24 jam wall-clock.
func TruncateToDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// DaysUntil menghitung sisa hari kalender dari `from` ke `to`.
// Negatif artinya sudah lewat. Selisih dihitung dari komponen tanggal di
// UTC, bukan jam wall-clock, supaya transisi DST di tengah rentang tidak
// menggeser hitungan.
func DaysUntil(from, to time.Time) int {
	fy, fm, fd := from.Date()
	ty, tm, td := to.Date()
	f := time.Date(fy, fm, fd, 0, 0, 0, 0, time.UTC)
	t := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)
	return int(t.Sub(f) / (24 * time.Hour))
}
