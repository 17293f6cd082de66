package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/smazurov/videodev/internal/api/models"
	"github.com/smazurov/videodev/internal/devices"
	"github.com/smazurov/videodev/pkg/linuxav/v4l2"
)

// registryError maps registry failures to HTTP errors.
func registryError(err error) error {
	var re *devices.RegistryError
	if errors.As(err, &re) {
		switch re.Code {
		case devices.ErrCodeDeviceNotFound:
			return huma.Error404NotFound(re.Message, err)
		case devices.ErrCodeProbeFailed, devices.ErrCodeEnumerationFailed:
			return huma.Error502BadGateway(re.Message, err)
		}
	}
	return huma.Error500InternalServerError("Device registry failure", err)
}

func (s *Server) registerDeviceRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "list-devices",
		Method:      http.MethodGet,
		Path:        "/api/devices",
		Summary:     "List Devices",
		Description: "List the video devices in the registry with their last probe result",
		Tags:        []string{"devices"},
		Security:    withAuth(),
		Errors:      []int{401},
	}, func(_ context.Context, _ *struct{}) (*models.DeviceListResponse, error) {
		return &models.DeviceListResponse{Body: models.NewDeviceListData(s.registry.List())}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "refresh-devices",
		Method:      http.MethodPost,
		Path:        "/api/devices/refresh",
		Summary:     "Refresh Devices",
		Description: "Re-enumerate and re-probe every video device",
		Tags:        []string{"devices"},
		Security:    withAuth(),
		Errors:      []int{401, 502},
	}, func(ctx context.Context, _ *struct{}) (*models.DeviceListResponse, error) {
		reports, err := s.registry.Refresh(ctx)
		if err != nil {
			return nil, registryError(err)
		}
		return &models.DeviceListResponse{Body: models.NewDeviceListData(reports)}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "get-device",
		Method:      http.MethodGet,
		Path:        "/api/devices/{name}",
		Summary:     "Get Device",
		Description: "Get the capabilities and format catalog of one device",
		Tags:        []string{"devices"},
		Security:    withAuth(),
		Errors:      []int{401, 404},
	}, func(_ context.Context, input *models.DeviceNameInput) (*models.DeviceResponse, error) {
		report, err := s.registry.Lookup(input.Name)
		if err != nil {
			return nil, registryError(err)
		}
		return &models.DeviceResponse{Body: report}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "probe-device",
		Method:      http.MethodPost,
		Path:        "/api/devices/{name}/probe",
		Summary:     "Probe Device",
		Description: "Re-open one device and refresh its entry",
		Tags:        []string{"devices"},
		Security:    withAuth(),
		Errors:      []int{401, 404, 502},
	}, func(_ context.Context, input *models.DeviceNameInput) (*models.DeviceResponse, error) {
		report, err := s.registry.Probe(input.Name)
		if err != nil {
			return nil, registryError(err)
		}
		return &models.DeviceResponse{Body: report}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "device-intervals",
		Method:      http.MethodGet,
		Path:        "/api/devices/{name}/intervals",
		Summary:     "Frame Intervals",
		Description: "List the frame intervals a device supports for a format and frame size",
		Tags:        []string{"devices"},
		Security:    withAuth(),
		Errors:      []int{400, 401, 404, 502},
	}, func(_ context.Context, input *models.IntervalsInput) (*models.IntervalsResponse, error) {
		fourcc, err := v4l2.ParseFourCC(input.FourCC)
		if err != nil {
			return nil, huma.Error400BadRequest("Invalid fourcc", err)
		}
		size, err := v4l2.ParseResolution(input.Size)
		if err != nil {
			return nil, huma.Error400BadRequest("Invalid size", err)
		}

		dev, err := s.openDevice(input.Name)
		if err != nil {
			return nil, err
		}
		defer dev.Close()

		intervals, err := dev.FrameIntervals(fourcc, size.Width, size.Height)
		if err != nil {
			return nil, huma.Error502BadGateway("Failed to enumerate frame intervals", err)
		}

		data := models.IntervalsData{
			Device:    dev.Path(),
			FourCC:    fourcc.String(),
			Size:      size.String(),
			Intervals: make([]models.FrameInterval, 0, len(intervals)),
		}
		for _, iv := range intervals {
			fi := models.FrameInterval{
				Kind:        iv.Kind().String(),
				Min:         iv.Min().String(),
				Max:         iv.Max().String(),
				MaxFPS:      iv.Min().FPS(),
				MinFPS:      iv.Max().FPS(),
				Description: iv.String(),
			}
			if iv.Kind() == v4l2.FrameSizeStepwise {
				fi.Step = iv.Step().String()
			}
			data.Intervals = append(data.Intervals, fi)
		}
		return &models.IntervalsResponse{Body: data}, nil
	})
}
