package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	echoapi "github.com/dvergarav/acuademia/apps/api/echo"
	"github.com/dvergarav/acuademia/core"
	"github.com/dvergarav/acuademia/core/athlete"
	"github.com/dvergarav/acuademia/core/billing"
	"github.com/dvergarav/acuademia/core/class"
	"github.com/dvergarav/acuademia/core/coach"
	"github.com/dvergarav/acuademia/core/enrollment"
	"github.com/dvergarav/acuademia/core/user"
	emailsvc "github.com/dvergarav/acuademia/services/email"
	logsvc "github.com/dvergarav/acuademia/services/logger"
	"github.com/dvergarav/acuademia/storage/recordstore"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	// set up loggers
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	storeLogger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "STORE : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	storeLogger.Enable(!conf.Debug)

	// set up the record store client and repositories
	store := recordstore.NewClient(conf.Store)
	userRepo := recordstore.NewUserRepository(store)
	athleteRepo := recordstore.NewAthleteRepository(store)
	coachRepo := recordstore.NewCoachRepository(store)
	classRepo := recordstore.NewClassRepository(store)
	slotRepo := recordstore.NewSlotRepository(store)
	linkRepo := recordstore.NewLinkRepository(store)
	enrollmentRepo := recordstore.NewEnrollmentRepository(store)
	billingRepo := recordstore.NewBillingRepository(store)

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}

	usrSvc := user.NewService(userRepo)
	athleteSvc := athlete.NewService(athleteRepo)
	classSvc := class.NewService(classRepo, slotRepo, linkRepo, enrollmentRepo, storeLogger)
	coachSvc := coach.NewService(coachRepo, classSvc)
	billingSvc := billing.NewService(billingRepo)
	enrollmentSvc := enrollment.NewService(athleteRepo, classRepo, enrollmentRepo, billingRepo, mailSvc, storeLogger)

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	validate := validator.New()
	translator := newTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	class.InitValidators(validate, translator)

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.

	// Expose important info under /debug/vars.
	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)

	go func() {
		if err := http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(&echoapi.ServerDeps{
		Conf:          conf,
		Logger:        logger,
		Validate:      validate,
		Translator:    translator,
		UserSvc:       usrSvc,
		AthleteSvc:    athleteSvc,
		CoachSvc:      coachSvc,
		ClassSvc:      classSvc,
		EnrollmentSvc: enrollmentSvc,
		BillingSvc:    billingSvc,
	})

	go func() {
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err := <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err := server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}
