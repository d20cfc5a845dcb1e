package http

import (
	"github.com/gofiber/fiber/v2"
)

type rejectInput struct {
	Reason string `json:"reason"`
}

// PendingPOIsHandler lists submissions awaiting review.
func PendingPOIsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		pois, err := deps.Moderation.Pending(c.UserContext())
		if err != nil {
			return respondErr(c, err)
		}
		return c.JSON(fiber.Map{"count": len(pois), "data": pois})
	}
}

// DuplicatesHandler lists published POIs that may duplicate a submission.
func DuplicatesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		items, err := deps.Moderation.FindDuplicates(c.UserContext(), id)
		if err != nil {
			return respondErr(c, err)
		}
		return c.JSON(NearbyResponse{Reference: fiber.Map{"id": id}, Count: len(items), Data: items})
	}
}

// PublishPOIHandler publishes a submission immediately, bypassing the
// review workflow.
func PublishPOIHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		poi, err := deps.Moderation.Publish(c.UserContext(), c.Params("id"))
		if err != nil {
			return respondErr(c, err)
		}
		if err := deps.Moderation.NotifyDecision(c.UserContext(), poi, ""); err != nil {
			logRequest(c).WarnContext(c.UserContext(), "notify decision", "poi_id", poi.ID, "error", err)
		}
		return c.JSON(poi)
	}
}

// RejectPOIHandler rejects a pending submission.
func RejectPOIHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in rejectInput
		if len(c.Body()) > 0 {
			if err := c.BodyParser(&in); err != nil {
				return errBadRequest(c, "invalid request body")
			}
		}
		poi, err := deps.Moderation.Reject(c.UserContext(), c.Params("id"), in.Reason)
		if err != nil {
			return respondErr(c, err)
		}
		if err := deps.Moderation.NotifyDecision(c.UserContext(), poi, in.Reason); err != nil {
			logRequest(c).WarnContext(c.UserContext(), "notify decision", "poi_id", poi.ID, "error", err)
		}
		return c.JSON(poi)
	}
}
