package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/omer-studio/backend/internal/http/dto"
)

type MetaHandler struct{}

func NewMetaHandler() *MetaHandler {
	return &MetaHandler{}
}

// Option lists backing the studio's pickers.
var (
	predefinedAngles = []string{"أمامية", "جانبية", "علوي", "45 درجة", "مقربة"}
	predefinedScenes = []string{"ستوديو فخم", "بيئة طبيعية", "منزل عصري", "بساطة مفرطة", "إضاءة نيون"}

	predefinedMarkets  = []string{"السعودية", "الإمارات", "مصر", "عالمي"}
	predefinedDialects = []string{"عامية سعودية", "فصحى", "مصرية", "خليجية"}
	predefinedReasons  = []string{"إطلاق منتج جديد", "عروض خصومات", "حملة موسمية", "تصفية مخزون"}

	predefinedSizes        = []string{"1K", "2K", "4K"}
	predefinedAspectRatios = []string{"1:1", "16:9", "9:16", "4:3", "3:4"}
)

func (h *MetaHandler) GetAngles(c *fiber.Ctx) error {
	return c.JSON(dto.SuccessResponse{OK: true, Data: predefinedAngles})
}

func (h *MetaHandler) GetScenes(c *fiber.Ctx) error {
	return c.JSON(dto.SuccessResponse{OK: true, Data: predefinedScenes})
}

func (h *MetaHandler) GetMarkets(c *fiber.Ctx) error {
	return c.JSON(dto.SuccessResponse{OK: true, Data: predefinedMarkets})
}

func (h *MetaHandler) GetDialects(c *fiber.Ctx) error {
	return c.JSON(dto.SuccessResponse{OK: true, Data: predefinedDialects})
}

func (h *MetaHandler) GetReasons(c *fiber.Ctx) error {
	return c.JSON(dto.SuccessResponse{OK: true, Data: predefinedReasons})
}

func (h *MetaHandler) GetImageOptions(c *fiber.Ctx) error {
	return c.JSON(dto.SuccessResponse{OK: true, Data: fiber.Map{
		"sizes":         predefinedSizes,
		"aspect_ratios": predefinedAspectRatios,
	}})
}
