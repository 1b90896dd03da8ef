package logger

import "go.uber.org/zap"

// Log is the process-wide logger. It discards output until Init is called.
var Log = zap.NewNop()

// Init replaces Log with a production logger, or a development one when
// development is true.
func Init(development bool) error {
	var (
		l   *zap.Logger
		err error
	)
	if development {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		return err
	}
	Log = l
	return nil
}

func Sugar() *zap.SugaredLogger {
	return Log.Sugar()
}
