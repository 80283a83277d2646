package main

import (
	"flag"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/dukaanly/possync/internal/devserver"
)

func main() {

	addr := flag.String("addr", ":8080", "listen address")
	flag.Parse()

	secret := os.Getenv("POSSYNC_DEV_SECRET")
	if secret == "" {
		secret = "dev-secret"
	}

	srv := devserver.New([]byte(secret), 24*time.Hour)

	log.Printf("dev server listening on %s", *addr)
	if err := http.ListenAndServe(*addr, srv.Router()); err != nil {
		log.Fatalf("%v", err)
	}
}
