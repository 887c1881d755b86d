package interpreter

// User-facing messages posted by the interpreter.
const (
	msgUnknownCommand = "Command %s is not a known command"
	msgNoProcedure    = "Could not open procedure"
	msgTooDeep        = "Stored procedures nested too deeply"
)

// MaxProcedureDepth bounds how deeply stored procedures may call one
// another, so a procedure that names itself terminates.
const MaxProcedureDepth = 16
