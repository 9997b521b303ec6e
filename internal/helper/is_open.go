package helper

import (
	"strings"
	"time"

	"github.com/pkg/errors"
)

// IsQueueOpen - cek apakah loket buka pada waktu now.
// Jam pakai lokasi dari now, format HH:MM:SS atau HH:MM.
func IsQueueOpen(openAt, closeAt string, now time.Time) bool {
	loc := now.Location()

	// Database TIME format bisa HH:MM:SS atau HH:MM
	layout := "15:04:05"

	// Normalize format - tambahkan :00 jika cuma HH:MM
	if strings.Count(openAt, ":") == 1 {
		openAt += ":00"
	}
	if strings.Count(closeAt, ":") == 1 {
		closeAt += ":00"
	}

	openTime, err := time.ParseInLocation(layout, openAt, loc)
	if err != nil {
		return false
	}

	closeTime, err := time.ParseInLocation(layout, closeAt, loc)
	if err != nil {
		return false
	}

	// Set tanggal HARI INI
	openTime = time.Date(
		now.Year(), now.Month(), now.Day(),
		openTime.Hour(), openTime.Minute(), openTime.Second(),
		0, loc,
	)

	closeTime = time.Date(
		now.Year(), now.Month(), now.Day(),
		closeTime.Hour(), closeTime.Minute(), closeTime.Second(),
		0, loc,
	)

	// Handle case jam tutup melewati tengah malam
	// Contoh: buka 22:00, tutup 02:00
	if closeTime.Before(openTime) {
		// Jika sekarang sebelum jam buka, berarti masih di periode kemarin
		if now.Before(openTime) {
			openTime = openTime.Add(-24 * time.Hour)
		} else {
			closeTime = closeTime.Add(24 * time.Hour)
		}
	}

	return !now.Before(openTime) && now.Before(closeTime)
}

// LoadLocation - "Local" atau kosong pakai zona waktu server
func LoadLocation(name string) (*time.Location, error) {
	if name == "" || name == "Local" {
		return time.Local, nil
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, errors.Wrapf(err, "helper : zona waktu %q tidak dikenal", name)
	}
	return loc, nil
}
