package http

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/kamertour/kamertour/internal/core/domain"
)

// favoriteInput is the body accepted by POST and PUT on favorites. VisitDate
// is RFC 3339 or a plain YYYY-MM-DD date.
type favoriteInput struct {
	POIID     string `json:"poi_id"`
	Notes     string `json:"notes"`
	Rating    int    `json:"rating"`
	VisitDate string `json:"visit_date"`
}

func (in favoriteInput) visitDate() (*time.Time, error) {
	raw := strings.TrimSpace(in.VisitDate)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, time.DateOnly} {
		if t, err := time.Parse(layout, raw); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, &domain.ValidationError{Field: "visit_date", Message: "must be a date (YYYY-MM-DD) or RFC 3339 timestamp"}
}

// FavoritesResponse lists a user's favorites.
type FavoritesResponse struct {
	Count int                    `json:"count"`
	Data  []domain.FavoriteEntry `json:"data"`
}

// ListFavoritesHandler returns a user's favorites, filtered by ?q= over POI
// name, description and notes and by ?category=.
func ListFavoritesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		cats, err := domain.ParseCategories(c.Query("category"))
		if err != nil {
			return respondErr(c, err)
		}
		items, err := deps.Favorites.List(c.UserContext(), domain.FavoriteFilter{
			UserID:     c.Params("user"),
			Query:      c.Query("q"),
			Categories: cats,
		})
		if err != nil {
			return respondErr(c, err)
		}
		return c.JSON(FavoritesResponse{Count: len(items), Data: items})
	}
}

// AddFavoriteHandler saves a POI for a user.
func AddFavoriteHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in favoriteInput
		if err := c.BodyParser(&in); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		visit, err := in.visitDate()
		if err != nil {
			return respondErr(c, err)
		}
		entry, err := deps.Favorites.Add(c.UserContext(), &domain.Favorite{
			UserID:    c.Params("user"),
			POIID:     in.POIID,
			Notes:     in.Notes,
			Rating:    in.Rating,
			VisitDate: visit,
		})
		if err != nil {
			return respondErr(c, err)
		}
		c.Location("/v1/users/" + entry.UserID + "/favorites/" + entry.ID)
		return c.Status(fiber.StatusCreated).JSON(entry)
	}
}

// UpdateFavoriteHandler replaces the notes, rating and visit date of a favorite.
func UpdateFavoriteHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in favoriteInput
		if err := c.BodyParser(&in); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		visit, err := in.visitDate()
		if err != nil {
			return respondErr(c, err)
		}
		fav, err := deps.Favorites.Update(c.UserContext(), c.Params("user"), c.Params("id"), domain.Favorite{
			Notes:     in.Notes,
			Rating:    in.Rating,
			VisitDate: visit,
		})
		if err != nil {
			return respondErr(c, err)
		}
		return c.JSON(fav)
	}
}

// RemoveFavoriteHandler deletes a favorite.
func RemoveFavoriteHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := deps.Favorites.Remove(c.UserContext(), c.Params("user"), c.Params("id")); err != nil {
			return respondErr(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
