package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/smazurov/videodev/internal/api/models"
	"github.com/smazurov/videodev/pkg/linuxav/v4l2"
)

// openDevice resolves name through the registry and opens it for the
// registry's buffer type.
func (s *Server) openDevice(name string) (*v4l2.VideoDevice, error) {
	report, err := s.registry.Lookup(name)
	if err != nil {
		return nil, registryError(err)
	}
	dev, err := v4l2.Open(report.Path, s.registry.BufType(), s.openOpts...)
	if err != nil {
		return nil, huma.Error502BadGateway("Failed to open device", err)
	}
	return dev, nil
}

// deviceError maps control and format failures to HTTP errors.
func deviceError(msg string, err error) error {
	switch {
	case errors.Is(err, v4l2.ErrUnknownControl):
		return huma.Error404NotFound("Unknown control", err)
	case errors.Is(err, v4l2.ErrControlValue), errors.Is(err, v4l2.ErrInvalidFormat):
		return huma.Error422UnprocessableEntity(msg, err)
	}
	return huma.Error502BadGateway(msg, err)
}

func pixFormatData(path string, f v4l2.PixFormat) models.PixFormat {
	return models.PixFormat{
		Device:       path,
		Width:        f.Width,
		Height:       f.Height,
		FourCC:       f.FourCC.String(),
		BytesPerLine: f.BytesPerLine,
		SizeImage:    f.SizeImage,
	}
}

func (s *Server) registerControlRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "list-controls",
		Method:      http.MethodGet,
		Path:        "/api/devices/{name}/controls",
		Summary:     "List Controls",
		Description: "List the controls a device exposes with their current values",
		Tags:        []string{"controls"},
		Security:    withAuth(),
		Errors:      []int{401, 404, 502},
	}, func(_ context.Context, input *models.DeviceNameInput) (*models.ControlsResponse, error) {
		dev, err := s.openDevice(input.Name)
		if err != nil {
			return nil, err
		}
		defer dev.Close()

		controls, err := dev.Controls()
		if err != nil {
			return nil, deviceError("Failed to query controls", err)
		}
		data := models.ControlsData{Device: dev.Path(), Controls: make([]models.Control, 0, len(controls))}
		for _, c := range controls {
			mc := models.Control{
				ID:      c.ID.String(),
				Name:    c.Name,
				Type:    c.Type.String(),
				Min:     c.Min,
				Max:     c.Max,
				Step:    c.Step,
				Default: c.Default,
				Flags:   c.Flags.String(),
			}
			if c.Readable() {
				if v, err := dev.Control(c.ID); err == nil {
					mc.Value = &v
				}
			}
			data.Controls = append(data.Controls, mc)
		}
		return &models.ControlsResponse{Body: data}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "set-control",
		Method:      http.MethodPut,
		Path:        "/api/devices/{name}/controls/{control}",
		Summary:     "Set Control",
		Description: "Write a control value and return the value the driver kept",
		Tags:        []string{"controls"},
		Security:    withAuth(),
		Errors:      []int{400, 401, 404, 422, 502},
	}, func(_ context.Context, input *models.SetControlInput) (*models.ControlValueResponse, error) {
		id, err := v4l2.ParseControlID(input.Control)
		if err != nil {
			return nil, huma.Error400BadRequest("Invalid control", err)
		}
		dev, err := s.openDevice(input.Name)
		if err != nil {
			return nil, err
		}
		defer dev.Close()

		value, err := dev.SetControl(id, input.Body.Value)
		if err != nil {
			return nil, deviceError("Failed to set control", err)
		}
		s.logger.Info("Control set", "device", dev.Path(), "control", id.String(), "value", value)
		return &models.ControlValueResponse{Body: models.ControlValueData{
			Device: dev.Path(),
			ID:     id.String(),
			Value:  value,
		}}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "get-format",
		Method:      http.MethodGet,
		Path:        "/api/devices/{name}/format",
		Summary:     "Get Format",
		Description: "Read the current image format of a device",
		Tags:        []string{"controls"},
		Security:    withAuth(),
		Errors:      []int{401, 404, 502},
	}, func(_ context.Context, input *models.DeviceNameInput) (*models.FormatResponse, error) {
		dev, err := s.openDevice(input.Name)
		if err != nil {
			return nil, err
		}
		defer dev.Close()

		f, err := dev.Format()
		if err != nil {
			return nil, deviceError("Failed to read format", err)
		}
		return &models.FormatResponse{Body: pixFormatData(dev.Path(), f)}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "set-format",
		Method:      http.MethodPut,
		Path:        "/api/devices/{name}/format",
		Summary:     "Set Format",
		Description: "Request a frame size and pixel format and return the format the driver chose",
		Tags:        []string{"controls"},
		Security:    withAuth(),
		Errors:      []int{400, 401, 404, 422, 502},
	}, func(_ context.Context, input *models.SetFormatInput) (*models.FormatResponse, error) {
		size, err := v4l2.ParseResolution(input.Body.Size)
		if err != nil {
			return nil, huma.Error400BadRequest("Invalid size", err)
		}
		dev, err := s.openDevice(input.Name)
		if err != nil {
			return nil, err
		}
		defer dev.Close()

		current, err := dev.Format()
		if err != nil {
			return nil, deviceError("Failed to read format", err)
		}
		fourcc := current.FourCC
		if input.Body.FourCC != "" {
			if fourcc, err = v4l2.ParseFourCC(input.Body.FourCC); err != nil {
				return nil, huma.Error400BadRequest("Invalid fourcc", err)
			}
		}

		f, err := dev.SetFormat(size.Width, size.Height, fourcc)
		if err != nil {
			return nil, deviceError("Failed to set format", err)
		}
		s.logger.Info("Format set", "device", dev.Path(), "format", f.String())
		return &models.FormatResponse{Body: pixFormatData(dev.Path(), f)}, nil
	})
}
