package main

import (
	"fmt"
	"log"
	"os"

	"github.com/LakshyaP28/examportal_backend/middlewares"
	"github.com/LakshyaP28/examportal_backend/routers"
	"github.com/LakshyaP28/examportal_backend/util"
	"github.com/gofiber/fiber/v2"
)

func main() {
	if err := util.DBConnectAndPopulateDBVar(); err != nil {
		fmt.Println(err.Error())
		log.Fatal("couldn't connect to the database")
	}
	fmt.Println("Connected to the database")

	if err := util.CreateTableIfNotExists(); err != nil {
		log.Fatal("Couldn't create tables ", err.Error())
	}
	if err := util.SeedDefaultAccounts(); err != nil {
		log.Fatal("Couldn't seed default accounts ", err.Error())
	}
	if err := util.RedisConnect(); err != nil {
		log.Println("redis unavailable, OTP throttling disabled:", err.Error())
	}

	app := fiber.New()
	routers.SetupRoutes(app)
	app.Use(middlewares.NotFound)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Fatal(app.Listen(":" + port))
}
