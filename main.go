package main

import (
	"errors"
	"net/http"
	"os"

	"github.com/km-arc/go-container/app"
	"github.com/km-arc/go-container/app/services"
	"github.com/km-arc/go-container/framework/container"
	gohttp "github.com/km-arc/go-container/framework/http"
	"github.com/km-arc/go-container/framework/routing"
)

func main() {
	application := app.New() // loads .env automatically

	if err := application.Boot(); err != nil {
		// Fail fast: a broken dependency chain is a startup error,
		// not something to discover on the first request.
		application.Log().WithError(err).Error("boot failed")
		os.Exit(1)
	}

	r := application.Router()

	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		gohttp.NewResponse(w).Success(map[string]any{"message": "Welcome!"})
	})

	// Every handler resolves its service per request; the container hands
	// back the same constructed instance each time.
	r.Prefix("/api/v1", func(api *routing.Router) {

		api.Post("/users", func(w http.ResponseWriter, req *http.Request) {
			res := gohttp.NewResponse(w)

			var body struct {
				Name  string `json:"name"`
				Email string `json:"email"`
			}
			if err := gohttp.NewRequest(req).Bind(&body); err != nil {
				res.Error(http.StatusBadRequest, err.Error())
				return
			}

			users, err := container.Resolve[*services.UserService](application.Container, "users")
			if err != nil {
				res.ServerError(err.Error())
				return
			}

			user, err := users.Register(body.Name, body.Email)
			if err != nil {
				res.ServerError(err.Error())
				return
			}
			res.Created(user)
		})

		api.Get("/users/{id}", func(w http.ResponseWriter, req *http.Request) {
			res := gohttp.NewResponse(w)

			users, err := container.Resolve[*services.UserService](application.Container, "users")
			if err != nil {
				res.ServerError(err.Error())
				return
			}

			user, err := users.Get(routing.Param(req, "id"))
			if errors.Is(err, services.ErrUserNotFound) {
				res.NotFound()
				return
			}
			if err != nil {
				res.ServerError(err.Error())
				return
			}
			res.Success(user)
		})
	})

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		gohttp.NewResponse(w).Success(map[string]any{
			"status":   "ok",
			"bindings": application.Bindings(),
		})
	})

	if err := application.Run(); err != nil {
		application.Log().WithError(err).Error("server stopped")
		os.Exit(1)
	}
}
