// Package modkit provides module wiring and core deps
package modkit

import (
	"remindme/internal/modkit/repokit"
	"remindme/internal/platform/config"
	"remindme/internal/platform/logger"
	"remindme/internal/platform/store"
)

// Deps holds core dependencies passed to modules
// this is wiring only and does not introduce new abstractions
type Deps struct {
	Log     logger.Logger
	Cfg     config.Conf
	DB      repokit.TxRunner
	Dialect store.Dialect
	CH      store.Clickhouse
}

// FromStore copies the opened backends of st into a Deps
func FromStore(log logger.Logger, cfg config.Conf, st *store.Store) Deps {
	d := Deps{Log: log, Cfg: cfg}
	if st != nil {
		d.DB, d.Dialect, d.CH = st.DB, st.Dialect, st.CH
	}
	return d
}
