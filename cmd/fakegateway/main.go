package main

import (
	"os"

	"registry-client/internal/config"
	"registry-client/internal/logger"
	"registry-client/internal/models"
	"registry-client/internal/testutils"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// fakegateway serves an in-memory Remote Resource Gateway for local
// development of registryctl. It keeps the reference and cascade rules of the
// real service but has no push channel, so clients fall back to polling.
func main() {
	// Load environment variables from .env file in development
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatal("Failed to load configuration: ", err)
	}
	logger.Setup(cfg.LogLevel, cfg.LogFormat, os.Stdout)

	// Set Gin mode
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	fake := testutils.NewFakeGateway()
	seed(fake)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	logger.ForComponent("fakegateway").WithField("port", port).Info("Starting fake gateway")
	if err := fake.Router.Run(":" + port); err != nil {
		logrus.Fatal("Failed to start server: ", err)
	}
}

// seed adds a couple of rows that share references so cascade deletion can be
// tried right away
func seed(fake *testutils.FakeGateway) {
	coords := fake.AddCoordinates(12, 40)
	town := fake.AddLocation("Springfield", 10, 20, 0.5)
	addr := fake.AddAddress(testutils.StringPtr("4980001"), town.ID)

	for _, name := range []string{"Springfield Nuclear Power Plant", "Kwik-E-Mart"} {
		payload := models.OrganizationPayload{
			Name:                         name,
			Type:                         models.OrganizationTypeOpenJointStockCompany,
			EmployeesCount:               100,
			CoordinatesID:                &coords.ID,
			PostalAddressID:              &addr.ID,
			ReusePostalAddressAsOfficial: true,
		}
		if _, err := fake.AddOrganization(payload); err != nil {
			logrus.Fatal("Failed to seed organizations: ", err)
		}
	}
}
