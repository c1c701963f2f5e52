package internal

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// Locale selects the language of month and weekday directory names.
type Locale string

const (
	LocaleEnglish Locale = "en"
	LocaleRussian Locale = "ru"
)

var ruMonths = [...]string{
	"Январь", "Февраль", "Март", "Апрель", "Май", "Июнь",
	"Июль", "Август", "Сентябрь", "Октябрь", "Ноябрь", "Декабрь",
}

var ruWeekdays = [...]string{
	"Воскресенье", "Понедельник", "Вторник", "Среда", "Четверг", "Пятница", "Суббота",
}

func (l Locale) month(m time.Month) string {
	if l == LocaleRussian {
		return ruMonths[m-1]
	}
	return m.String()
}

func (l Locale) weekday(d time.Weekday) string {
	if l == LocaleRussian {
		return ruWeekdays[d]
	}
	return d.String()
}

// Organizer moves photos into Root/YYYY/MM - Month/DD - Weekday/.
type Organizer struct {
	Root   string
	Locale Locale
	Sink   Sink
}

// BucketDir is the date bucket directory for t.
func (o *Organizer) BucketDir(t time.Time) string {
	return filepath.Join(o.Root,
		fmt.Sprintf("%04d", t.Year()),
		fmt.Sprintf("%02d - %s", int(t.Month()), o.Locale.month(t.Month())),
		fmt.Sprintf("%02d - %s", t.Day(), o.Locale.weekday(t.Weekday())))
}

// Organize moves each photo into the bucket of its creation time, keeping
// its file name. Photos already in their bucket are left alone. Photos whose
// file is gone are dropped; failed moves keep their old path.
func (o *Organizer) Organize(photos []*Photo) StageResult {
	res := StageResult{Photos: make([]*Photo, 0, len(photos))}

	for _, p := range photos {
		if _, err := os.Stat(p.Path); errors.Is(err, fs.ErrNotExist) {
			warnf(o.Sink, "file not found, skipping: %s", p.Path)
			res.Missing++
			res.Failures = append(res.Failures, CategorizeError(StageOrganize, p.Path, err))
			continue
		}
		res.Photos = append(res.Photos, p)

		dir := o.BucketDir(p.Created)
		dst := filepath.Join(dir, p.Name())
		if filepath.Clean(p.Path) == dst {
			res.Unchanged++
			continue
		}

		if err := os.MkdirAll(dir, 0755); err != nil {
			errorf(o.Sink, "failed to create directory %s: %v", dir, err)
			res.Failures = append(res.Failures, CategorizeError(StageOrganize, p.Path, err))
			continue
		}

		if err := moveFile(p.Path, dst); err != nil {
			errorf(o.Sink, "failed to move %s: %v", p.Name(), err)
			res.Failures = append(res.Failures, CategorizeError(StageOrganize, p.Path, err))
			continue
		}

		res.Moves = append(res.Moves, Move{From: p.Path, To: dst, Hash: p.Hash, Size: p.Size})
		p.relocate(dst)
		emitf(o.Sink, "moved: %s -> %s", p.Name(), dir)
	}

	emitf(o.Sink, "organizing by date finished")
	return res
}
