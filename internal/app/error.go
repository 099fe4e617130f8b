package app

import (
	"log"
	"os"

	"github.com/vinayakp/wcauction/internal/http/middleware"
)

func (a *application) InitErrorHandler() *middleware.ErrorHandler {
	return middleware.NewErrorHandler(log.New(os.Stderr, "", log.LstdFlags))
}
