package service

import (
	"sync/atomic"
	"time"
)

type State struct {
	ready     atomic.Bool
	startedAt time.Time

	wsConnected  atomic.Bool
	lastTickUnix atomic.Int64 // unix seconds, последняя котировка из стрима

	lastRunUnix atomic.Int64
	runsTotal   atomic.Int64
	alertsTotal atomic.Int64
}

func NewState() *State {
	s := &State{startedAt: time.Now()}
	s.ready.Store(false)
	return s
}

func (s *State) SetReady(v bool) { s.ready.Store(v) }
func (s *State) Ready() bool     { return s.ready.Load() }

func (s *State) SetWSConnected(v bool) { s.wsConnected.Store(v) }
func (s *State) WSConnected() bool     { return s.wsConnected.Load() }

func (s *State) TouchTick(t time.Time) { s.lastTickUnix.Store(t.Unix()) }
func (s *State) LastTick() time.Time   { return unixOrZero(s.lastTickUnix.Load()) }

// TouchRun отмечает завершённый прогон движка и сколько алертов он породил.
func (s *State) TouchRun(t time.Time, alerts int64) {
	s.lastRunUnix.Store(t.Unix())
	s.runsTotal.Add(1)
	s.alertsTotal.Add(alerts)
}

func (s *State) LastRun() time.Time { return unixOrZero(s.lastRunUnix.Load()) }
func (s *State) RunsTotal() int64   { return s.runsTotal.Load() }
func (s *State) AlertsTotal() int64 { return s.alertsTotal.Load() }

func (s *State) Uptime() time.Duration { return time.Since(s.startedAt) }

func unixOrZero(u int64) time.Time {
	if u == 0 {
		return time.Time{}
	}
	return time.Unix(u, 0)
}
