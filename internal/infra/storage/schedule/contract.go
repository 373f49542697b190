package schedule

import "github.com/m04kA/SMC-AgendaService/pkg/dbmetrics"

type DBExecutor = dbmetrics.DBExecutor
