package logger

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
)

// L é o logger global da aplicação; por defeito escreve em stdout
var L = zerolog.New(os.Stdout).With().Timestamp().Logger()

// Init reconfigura o logger global com nível e destino vindos da configuração.
// Com LOG_FILE vazio o destino continua sendo stdout.
func Init(level, file string) error {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}

	var out io.Writer = os.Stdout
	if file != "" {
		f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		out = f
	}

	L = zerolog.New(out).Level(lvl).With().Timestamp().Logger()
	return nil
}
