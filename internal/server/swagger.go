package server

//go:generate swag init -g internal/server/server.go -o docs

// @title Datadam API
// @version 0.1
// @description Interactive documentation for the Datadam field-matching API surface.
// @contact.name Datadam Maintainers
// @contact.url https://github.com/KennethLeeJE8/datadam-sub000
// @BasePath /
