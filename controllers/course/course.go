package courseController

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"studio/catalog"
	"studio/middleware"
	"studio/services"
)

func ListCourses(c *fiber.Ctx) error {
	app := services.App
	lang := app.Text.Resolve(c.Query("lang"))

	courses, err := app.Catalog.List(lang)
	if err != nil {
		log.Printf("Error building course list: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", fiber.Map{
		"language": lang,
		"courses":  courses,
	})
}

func GetCourse(c *fiber.Ctx) error {
	app := services.App
	courseID, _ := c.Locals("courseID").(uint)
	lang := app.Text.Resolve(c.Query("lang"))

	course, err := app.Catalog.Find(lang, courseID)
	if errors.Is(err, catalog.ErrCourseNotFound) {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}
	if err != nil {
		log.Printf("Error fetching course %d: %v", courseID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course fetched successfully!", course)
}
