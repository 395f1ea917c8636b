package serverutils

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	ProfileHeader = "X-Profile-Id"
	profileQuery  = "profile_id"
	profileLocal  = "profile_id"
)

// ProfileMiddleware resolves the visitor profile from the X-Profile-Id header or the
// profile_id query parameter. There are no accounts; the id only keys state.
func ProfileMiddleware(ctx *fiber.Ctx) error {
	raw := ctx.Get(ProfileHeader)
	if raw == "" {
		raw = ctx.Query(profileQuery)
	}
	if raw == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(ErrorResponse(fiber.StatusBadRequest, "Missing profile id"))
	}

	profileId, err := uuid.Parse(raw)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(ErrorResponse(fiber.StatusBadRequest, "Invalid profile id"))
	}

	ctx.Locals(profileLocal, profileId)
	return ctx.Next()
}

// ProfileID returns the id stored by ProfileMiddleware.
func ProfileID(ctx *fiber.Ctx) uuid.UUID {
	profileId, _ := ctx.Locals(profileLocal).(uuid.UUID)
	return profileId
}
