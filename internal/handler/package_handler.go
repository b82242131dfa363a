package handler

import (
	"github.com/fitbody/fitbody-backend/internal/models"
	"github.com/fitbody/fitbody-backend/internal/service"
	"github.com/fitbody/fitbody-backend/pkg/utils"
	"github.com/gofiber/fiber/v2"
)

type PackageHandler struct {
	packageService *service.PackageService
	validator      *utils.Validator
}

func NewPackageHandler(packageService *service.PackageService, validator *utils.Validator) *PackageHandler {
	return &PackageHandler{
		packageService: packageService,
		validator:      validator,
	}
}

func (h *PackageHandler) GetAllPackages(c *fiber.Ctx) error {
	packages, err := h.packageService.GetAllPackages(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse(err.Error()))
	}

	return c.JSON(models.SuccessResponse(packages, "Packages retrieved successfully"))
}

func (h *PackageHandler) GetPackageByID(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid package ID"))
	}

	pkg, err := h.packageService.GetPackageByID(c.Context(), uint(id))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(models.ErrorResponse("Package not found"))
	}

	return c.JSON(models.SuccessResponse(pkg, "Package retrieved successfully"))
}

func (h *PackageHandler) CreatePackage(c *fiber.Ctx) error {
	var req models.CreatePackageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse(err.Error()))
	}

	pkg, err := h.packageService.CreatePackage(c.Context(), req)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse(err.Error()))
	}

	return c.Status(fiber.StatusCreated).JSON(models.SuccessResponse(pkg, "Package created"))
}

func (h *PackageHandler) UpdatePackage(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid package ID"))
	}

	var req models.UpdatePackageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}

	pkg, err := h.packageService.UpdatePackage(c.Context(), uint(id), req)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(models.ErrorResponse("Package not found"))
	}

	return c.JSON(models.SuccessResponse(pkg, "Package updated"))
}

func (h *PackageHandler) DeletePackage(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid package ID"))
	}

	if err := h.packageService.DeletePackage(c.Context(), uint(id)); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse(err.Error()))
	}

	return c.JSON(models.SuccessResponse(nil, "Package deleted"))
}

func (h *PackageHandler) UploadPackageImage(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid package ID"))
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("image file is required"))
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Could not read image file"))
	}
	defer file.Close()

	pkg, err := h.packageService.UploadPackageImage(
		c.Context(),
		uint(id),
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		file,
		fileHeader.Size,
	)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse(err.Error()))
	}

	return c.JSON(models.SuccessResponse(pkg, "Package image uploaded"))
}
