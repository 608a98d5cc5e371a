package httpapi

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/radar-mms/ccl/internal/lib/geo"
	"github.com/radar-mms/ccl/internal/services"
	"github.com/radar-mms/ccl/internal/version"
)

// TraverseHandler plans a survey path. The body is a services.TraverseRequest
// whose polygon may also be given as an encoded polyline.
func TraverseHandler(deps *Dependencies) fiber.Handler {
	type request struct {
		services.TraverseRequest
		EncodedPolygon string `json:"encoded_polygon,omitempty"`
	}

	return func(c *fiber.Ctx) error {
		var req request
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body: "+err.Error())
		}
		if req.EncodedPolygon != "" {
			if len(req.Polygon) > 0 {
				return errBadRequest(c, "give either polygon or encoded_polygon, not both")
			}
			path, err := geo.DecodePath(req.EncodedPolygon)
			if err != nil {
				return errBadRequest(c, err.Error())
			}
			req.Polygon = geo.Polygon(path)
		}

		resp, err := deps.Planner.PlanTraverse(c.UserContext(), req.TraverseRequest)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(resp)
	}
}

// OrthodromHandler samples a great-circle route
func OrthodromHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req services.OrthodromRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body: "+err.Error())
		}

		resp, err := deps.Planner.PlanOrthodrom(c.UserContext(), req)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(resp)
	}
}

// ZoomHandler answers GET /v1/zoom?lat=&mpp=
func ZoomHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		lat, err := queryFloat(c, "lat")
		if err != nil {
			return errBadRequest(c, err.Error())
		}
		mpp, err := queryFloat(c, "mpp")
		if err != nil {
			return errBadRequest(c, err.Error())
		}

		zoom, err := deps.Planner.ZoomForResolution(lat, mpp)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(fiber.Map{"zoom": zoom})
	}
}

// PixelHandler answers GET /v1/pixel?lat=&lon=&zoom=
func PixelHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		lat, err := queryFloat(c, "lat")
		if err != nil {
			return errBadRequest(c, err.Error())
		}
		lon, err := queryFloat(c, "lon")
		if err != nil {
			return errBadRequest(c, err.Error())
		}
		zoom, err := queryZoom(c)
		if err != nil {
			return errBadRequest(c, err.Error())
		}

		resp, err := deps.Planner.Pixel(geo.NewCoordinate(lat, lon), zoom)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(resp)
	}
}

// TilesHandler lists the tiles covering a path
func TilesHandler(deps *Dependencies) fiber.Handler {
	type request struct {
		Path     geo.Path `json:"path"`
		Zoom     uint     `json:"zoom"`
		MaxTiles int      `json:"max_tiles,omitempty"`
	}

	return func(c *fiber.Ctx) error {
		var req request
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body: "+err.Error())
		}

		resp, err := deps.Planner.TileCoverage(c.UserContext(), req.Path, req.Zoom, req.MaxTiles)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(resp)
	}
}

// VersionHandler reports the library version
func VersionHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"name": version.Name, "version": version.Version})
	}
}

func queryFloat(c *fiber.Ctx, key string) (float64, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, fmt.Errorf("query parameter %q is required", key)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("query parameter %q must be a number", key)
	}
	return v, nil
}

func queryZoom(c *fiber.Ctx) (uint, error) {
	raw := c.Query("zoom")
	if raw == "" {
		return 0, fmt.Errorf("query parameter %q is required", "zoom")
	}
	v, err := strconv.ParseUint(raw, 10, 8)
	if err != nil {
		return 0, fmt.Errorf("query parameter %q must be a small non-negative integer", "zoom")
	}
	return uint(v), nil
}
