package services

import (
	"time"

	"github.com/dmitrijs2005/learnjournal/internal/server/config"
	"github.com/dmitrijs2005/learnjournal/internal/timex"
)

// dayClock decides which calendar day it is in the configured zone.
type dayClock struct {
	now func() time.Time
	loc *time.Location
}

func newDayClock(cfg *config.Config) dayClock {
	loc, err := cfg.Location()
	if err != nil {
		// config.Validate rejects unknown zones before services are built
		loc = time.UTC
	}
	return dayClock{now: time.Now, loc: loc}
}

// today returns midnight of the current day in the configured zone.
func (c dayClock) today() time.Time {
	return timex.Midnight(c.now().In(c.loc))
}
