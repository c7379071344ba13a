package app

import (
	"hash/maphash"
	"math/rand/v2"

	"github.com/vancomm/minesweeper-board/internal/config"
	"github.com/vancomm/minesweeper-board/internal/handlers"
)

func createRand() *rand.Rand {
	return rand.New(rand.NewPCG(
		new(maphash.Hash).Sum64(), new(maphash.Hash).Sum64(),
	))
}

func (a *App) loadRoutes() {
	boards := handlers.NewBoardHandler(
		a.logger, a.store, a.journal, a.ws, createRand,
	)
	auth := handlers.NewAuth(a.logger, a.store, a.cookies, a.jwt)

	base := config.BasePath()

	a.router.HandleFunc("POST "+base+"/boards", boards.NewBoard)
	a.router.HandleFunc("GET "+base+"/boards/{id}", boards.Fetch)
	a.router.HandleFunc("GET "+base+"/boards/{id}/status", boards.Status)
	a.router.HandleFunc("GET "+base+"/boards/{id}/cells", boards.Cell)
	a.router.HandleFunc("POST "+base+"/boards/{id}/flag", boards.Flag)
	a.router.HandleFunc("POST "+base+"/boards/{id}/reveal", boards.Reveal)
	a.router.HandleFunc("GET "+base+"/boards/{id}/connect", boards.Connect)
	a.router.HandleFunc("GET "+base+"/records", boards.Records)

	a.router.HandleFunc("POST "+base+"/player/register", auth.Register)
	a.router.HandleFunc("POST "+base+"/player/login", auth.Login)
	a.router.HandleFunc("POST "+base+"/player/logout", auth.Logout)
	a.router.HandleFunc("GET "+base+"/player/status", auth.Status)
}
