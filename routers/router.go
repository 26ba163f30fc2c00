package routers

import (
	"github.com/LakshyaP28/examportal_backend/controllers"
	"github.com/LakshyaP28/examportal_backend/middlewares"
	"github.com/LakshyaP28/examportal_backend/models"
	"github.com/gofiber/fiber/v2"
)

func SetupRoutes(app *fiber.App) {

	// Exam surface
	app.Get("/", controllers.ListExams)
	app.Post("/create_exam", middlewares.Protected(), middlewares.RequireRoles(models.RoleExaminer, models.RoleAdmin), controllers.CreateExam)
	app.Post("/edit_exam/:exam_id", middlewares.Protected(), middlewares.RequireRoles(models.RoleExaminer, models.RoleAdmin), controllers.EditExam)
	app.Get("/view_exam/:exam_id", middlewares.Protected(), middlewares.RequireRoles(models.RoleExaminer, models.RoleAdmin), controllers.ViewExam)
	app.Get("/instructions/:exam_id", controllers.Instructions)
	app.Get("/take_exam/:exam_id", middlewares.Protected(), controllers.TakeExamGet)
	app.Post("/take_exam/:exam_id", middlewares.Protected(), controllers.TakeExamPost)
	app.Post("/delete_exam/:exam_id", middlewares.Protected(), middlewares.RequireRoles(models.RoleExaminer, models.RoleAdmin), controllers.DeleteExam)

	api := app.Group("/api")

	// Auth
	api.Post("/register", controllers.Register)
	api.Post("/login", controllers.Login)
	api.Get("/profile", middlewares.Protected(), controllers.Profile)

	// Password reset
	password := api.Group("/password")
	password.Post("/reset-request", controllers.RequestPasswordReset)
	password.Post("/verify-otp", controllers.VerifyOTP)
	password.Post("/reset", controllers.ResetPassword)

	// User administration
	users := api.Group("/users")
	users.Get("/", middlewares.Protected(), middlewares.RequireRoles(models.RoleAdmin), controllers.GetAllUsers)
	users.Get("/digital/:digital_id_hash", middlewares.Protected(), middlewares.RequireRoles(models.RoleAdmin), controllers.GetUserByDigitalID)
	users.Put("/:user_id", middlewares.Protected(), controllers.UpdateUser)
	users.Put("/:user_id/activate", middlewares.Protected(), middlewares.RequireRoles(models.RoleAdmin), controllers.ActivateUser)
	users.Put("/:user_id/deactivate", middlewares.Protected(), middlewares.RequireRoles(models.RoleAdmin), controllers.DeactivateUser)
}
