package services

import "time"

type nowFunc = func() time.Time

func defaultNow() time.Time {
	return time.Now()
}
