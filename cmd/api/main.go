// Package main World Cup Auction API
//
// World Cup Auction runs a turn-based sealed-bid auction for fantasy
// cricket squads: users take turns bidding on players, the highest sealed
// bid wins each round, and standings follow the scores of the players each
// user owns.
//
//	Schemes: http, https
//	Host: localhost:8080
//	BasePath: /api/v1
//	Version: 1.0.0
//
//	Consumes:
//	- application/json
//
//	Produces:
//	- application/json
//
//	Security:
//	- bearer
package main

import (
	"context"

	_ "github.com/vinayakp/wcauction/docs"
	"github.com/vinayakp/wcauction/internal/app"
)

// @title World Cup Auction API Service
// @version 1.0
// @description Turn-based sealed-bid auction service for fantasy cricket squads.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	ctx := context.Background()
	application := app.NewApplication(ctx)
	application.Setup()
}
