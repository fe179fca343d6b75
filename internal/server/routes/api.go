package routes

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/sagi-l/ci-dashboard/internal/entity"
	"github.com/sagi-l/ci-dashboard/internal/usecase"
	"github.com/samber/do"
)

func RegisterAPI(injector *do.Injector, e *echo.Echo) {
	api := e.Group("/api")

	api.GET("/pipeline/status", func(c echo.Context) error {
		uc := do.MustInvoke[usecase.GetPipelineStatusUsecase](injector)
		status, err := uc.Execute(c.Request().Context())
		if err != nil {
			return errorJSON(c, err)
		}
		return c.JSON(http.StatusOK, status)
	})

	api.POST("/pipeline/trigger", func(c echo.Context) error {
		uc := do.MustInvoke[usecase.TriggerBuildUsecase](injector)
		result, err := uc.Execute(c.Request().Context())
		if err != nil {
			type response struct {
				Success bool   `json:"success"`
				Error   string `json:"error"`
			}
			return c.JSON(statusFor(err), &response{Success: false, Error: err.Error()})
		}

		type response struct {
			Success         bool   `json:"success"`
			Message         string `json:"message"`
			PreviousVersion string `json:"previous_version"`
			NewVersion      string `json:"new_version"`
		}
		return c.JSON(http.StatusOK, &response{
			Success:         true,
			Message:         "Version bumped to " + result.NewVersion + ", build will start via webhook",
			PreviousVersion: result.PreviousVersion,
			NewVersion:      result.NewVersion,
		})
	})

	api.GET("/pipeline/logs", func(c echo.Context) error {
		build, err := intQuery(c, "build", 0)
		if err != nil {
			return errorJSON(c, err)
		}
		start, err := intQuery(c, "start", 0)
		if err != nil {
			return errorJSON(c, err)
		}

		uc := do.MustInvoke[usecase.GetBuildLogUsecase](injector)
		chunk, err := uc.Execute(c.Request().Context(), int(build), start)
		if err != nil {
			return errorJSON(c, err)
		}
		return c.JSON(http.StatusOK, chunk)
	})

	api.GET("/pipeline/history", func(c echo.Context) error {
		limit, err := intQuery(c, "limit", 0)
		if err != nil {
			return errorJSON(c, err)
		}

		uc := do.MustInvoke[usecase.GetBuildHistoryUsecase](injector)
		builds, err := uc.Execute(c.Request().Context(), int(limit))
		if err != nil {
			return errorJSON(c, err)
		}
		return c.JSON(http.StatusOK, builds)
	})

	api.GET("/systems/status", func(c echo.Context) error {
		uc := do.MustInvoke[usecase.GetSystemsStatusUsecase](injector)
		status, err := uc.Execute(c.Request().Context())
		if err != nil {
			return errorJSON(c, err)
		}
		return c.JSON(http.StatusOK, status)
	})

	api.GET("/deployment/version", func(c echo.Context) error {
		uc := do.MustInvoke[usecase.GetDeploymentVersionUsecase](injector)
		version, err := uc.Execute(c.Request().Context())
		if err != nil {
			return errorJSON(c, err)
		}
		return c.JSON(http.StatusOK, version)
	})

	api.GET("/deployments/pending", func(c echo.Context) error {
		uc := do.MustInvoke[usecase.ListPendingDeploymentsUsecase](injector)
		proposals, err := uc.Execute(c.Request().Context())
		if err != nil {
			return errorJSON(c, err)
		}

		type response struct {
			Proposals []entity.DeploymentProposal `json:"proposals"`
		}
		if proposals == nil {
			proposals = []entity.DeploymentProposal{}
		}
		return c.JSON(http.StatusOK, &response{Proposals: proposals})
	})

	api.POST("/deployments/:number/approve", func(c echo.Context) error {
		return resolveProposal(c, func(number int) error {
			uc := do.MustInvoke[usecase.ApproveDeploymentUsecase](injector)
			return uc.Execute(c.Request().Context(), number)
		}, "deployment approved")
	})

	api.POST("/deployments/:number/reject", func(c echo.Context) error {
		return resolveProposal(c, func(number int) error {
			uc := do.MustInvoke[usecase.RejectDeploymentUsecase](injector)
			return uc.Execute(c.Request().Context(), number)
		}, "deployment rejected")
	})

	api.GET("/triggers/recent", func(c echo.Context) error {
		limit, err := intQuery(c, "limit", 0)
		if err != nil {
			return errorJSON(c, err)
		}

		uc := do.MustInvoke[usecase.ListRecentTriggersUsecase](injector)
		records, err := uc.Execute(c.Request().Context(), int(limit))
		if err != nil {
			return errorJSON(c, err)
		}

		type response struct {
			Triggers []*entity.TriggerRecord `json:"triggers"`
		}
		if records == nil {
			records = []*entity.TriggerRecord{}
		}
		return c.JSON(http.StatusOK, &response{Triggers: records})
	})
}

func resolveProposal(c echo.Context, resolve func(number int) error, message string) error {
	number, err := strconv.Atoi(c.Param("number"))
	if err != nil || number <= 0 {
		return errorJSON(c, entity.ErrValidation)
	}

	type response struct {
		Success bool   `json:"success"`
		Message string `json:"message,omitempty"`
		Error   string `json:"error,omitempty"`
	}
	if err := resolve(number); err != nil {
		return c.JSON(statusFor(err), &response{Success: false, Error: err.Error()})
	}
	return c.JSON(http.StatusOK, &response{Success: true, Message: message})
}

func intQuery(c echo.Context, name string, fallback int64) (int64, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, entity.ErrValidation
	}
	return v, nil
}

func errorJSON(c echo.Context, err error) error {
	type response struct {
		Error string `json:"error"`
	}
	return c.JSON(statusFor(err), &response{Error: err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, entity.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, entity.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, entity.ErrConflict), errors.Is(err, entity.ErrAlreadyResolved):
		return http.StatusConflict
	case errors.Is(err, entity.ErrUnreachable), errors.Is(err, entity.ErrInvalidResponse):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
