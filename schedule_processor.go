package dispatch

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type scheduleProcessor struct {
	sync.Mutex
	reg           *Registry
	scheduled     map[uuid.UUID]*scheduledDispatch
	triggerSignal chan bool
	shuttingDown  *flag
	sleepTimer    *time.Timer
	sleepUntil    time.Time
}

func newScheduleProcessor(reg *Registry) *scheduleProcessor {
	pro := &scheduleProcessor{
		reg:           reg,
		scheduled:     make(map[uuid.UUID]*scheduledDispatch),
		triggerSignal: make(chan bool, 1),
		shuttingDown:  newFlag(),
	}
	go pro.process()
	return pro
}

func (pro *scheduleProcessor) add(schDis *scheduledDispatch) uuid.UUID {
	pro.Lock()
	key := uuid.New()
	pro.scheduled[key] = schDis
	pro.Unlock()
	pro.trigger()
	return key
}

func (pro *scheduleProcessor) remove(keys ...uuid.UUID) {
	pro.Lock()
	for _, key := range keys {
		delete(pro.scheduled, key)
	}
	pro.Unlock()
	pro.trigger()
}

func (pro *scheduleProcessor) shutdown() {
	pro.shuttingDown.enable()
	pro.trigger()
}

func (pro *scheduleProcessor) process() {
	for !pro.shuttingDown.enabled() {
		pro.Lock()
		now := time.Now()
		pro.sleepUntil = time.Time{}
		for key, schDis := range pro.scheduled {
			following := schDis.sch.Following()
			if following.IsZero() {
				_ = schDis.sch.Next()
				following = schDis.sch.Following()
			}

			if now.After(following) || now.Equal(following) {
				pro.reg.fire(schDis.invocation, schDis.args)
				if err := schDis.sch.Next(); err != nil {
					delete(pro.scheduled, key)
					continue
				}
				following = schDis.sch.Following()
			}
			pro.updateSleepUntil(following)
		}
		pro.updateSleepTimer(pro.determineSleepDuration())
		pro.Unlock()

		// allow the processor to be triggered either with timer or directly
		select {
		case <-pro.sleepTimer.C:
		case <-pro.triggerSignal:
		}
	}
}

func (pro *scheduleProcessor) trigger() {
	pro.triggerSignal <- true
}

func (pro *scheduleProcessor) updateSleepUntil(nextTrigger time.Time) {
	if pro.sleepUntil.IsZero() || nextTrigger.Before(pro.sleepUntil) {
		pro.sleepUntil = nextTrigger
	}
}

func (pro *scheduleProcessor) determineSleepDuration() time.Duration {
	if pro.sleepUntil.IsZero() || len(pro.scheduled) <= 0 {
		return time.Hour
	}

	return time.Until(pro.sleepUntil)
}

func (pro *scheduleProcessor) updateSleepTimer(d time.Duration) {
	if pro.sleepTimer == nil {
		pro.sleepTimer = time.NewTimer(d)
		return
	}
	pro.sleepTimer.Reset(d)
}
