// File: cmd/server/wire.go
//go:build wireinject
// +build wireinject

package main

import (
	"realestate_backend/internal/app"
	"realestate_backend/internal/cleanup"
	"realestate_backend/internal/config"
	"realestate_backend/internal/firebase"
	"realestate_backend/internal/jobs"
	"realestate_backend/internal/offer"
	"realestate_backend/internal/payment"
	"realestate_backend/internal/platform/database"
	"realestate_backend/internal/platform/logger"
	"realestate_backend/internal/property"
	"realestate_backend/internal/review"
	"realestate_backend/internal/shared"
	"realestate_backend/internal/user"
	"realestate_backend/internal/wishlist"

	"github.com/google/wire"
)

// initializeServer is the main Wire injector.
func initializeServer(cfg *config.Config) (*app.Server, func(), error) {
	wire.Build(
		// Platform Layer
		logger.New,
		database.NewMongo,

		// Firebase Service
		firebase.NewFirebaseService,

		// User module
		user.NewMongoRepository,
		user.NewService,
		wire.Bind(new(shared.Service), new(*user.ServiceImplementation)),
		wire.Bind(new(user.Service), new(*user.ServiceImplementation)),
		user.NewHandler,

		// Account cleanup
		cleanup.NewPurger,
		wire.Bind(new(user.CascadePurger), new(*cleanup.Purger)),

		// Property module
		property.NewMongoRepository,
		wire.Bind(new(property.FraudLookup), new(user.Repository)),
		property.NewService,
		property.NewHandler,

		// Wishlist module
		wishlist.NewMongoRepository,
		wishlist.NewService,
		wishlist.NewHandler,

		// Review module
		review.NewMongoRepository,
		review.NewService,
		review.NewHandler,

		// Offer lifecycle engine
		offer.NewMongoRepository,
		offer.NewService,
		offer.NewHandler,

		// Payments
		payment.NewStripeGateway,
		payment.NewService,
		payment.NewHandler,

		// Jobs
		jobs.NewSaleReconciliationJob,

		// Application Layer
		app.NewServer,
	)
	return nil, nil, nil
}
