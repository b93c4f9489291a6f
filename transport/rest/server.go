package rest

import (
	"fmt"
	"net/http"
	"time"
)

// RoomCounter reports the number of live rooms for the health surface.
type RoomCounter interface {
	RoomCount() int
}

func Start(port string, rooms RoomCounter) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ping", pingHandler)
	mux.HandleFunc("/rooms", roomsHandler(rooms))

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	if err := srv.ListenAndServe(); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}
