package main

import (
	"log"
	"os"

	"github.com/dvergarav/acuademia/core"
	"github.com/dvergarav/acuademia/core/user"
	"github.com/dvergarav/acuademia/storage/recordstore"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf := core.NewConfig()
	store := recordstore.NewClient(conf.Store)

	// start CLI
	cli := commandLine{
		usrSvc: user.NewService(recordstore.NewUserRepository(store)),
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}
