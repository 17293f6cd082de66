package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/smazurov/videodev/internal/api/models"
	"github.com/smazurov/videodev/pkg/linuxav/v4l2"
)

func bufferTypes() []models.BufferType {
	out := make([]models.BufferType, 0, 10)
	for _, t := range v4l2.BufTypes() {
		capName, _ := t.Capability().Name()
		out = append(out, models.BufferType{
			Value:      uint32(t),
			Name:       t.String(),
			Capability: capName,
			Output:     t.IsOutput(),
		})
	}
	return out
}

func capabilityTable() []models.Capability {
	caps := v4l2.Capabilities()
	out := make([]models.Capability, 0, len(caps))
	for _, c := range caps {
		name, _ := c.Name()
		out = append(out, models.Capability{
			Mask: fmt.Sprintf("0x%08x", uint32(c)),
			Name: name,
		})
	}
	return out
}

// registerReferenceRoutes serves the static V4L2 name tables.
func (s *Server) registerReferenceRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "list-buffer-types",
		Method:      http.MethodGet,
		Path:        "/api/buffer-types",
		Summary:     "Buffer Types",
		Description: "List the V4L2 buffer types and their canonical names",
		Tags:        []string{"reference"},
		Security:    []map[string][]string{},
	}, func(_ context.Context, _ *struct{}) (*models.BufferTypesResponse, error) {
		resp := &models.BufferTypesResponse{}
		resp.Body.BufferTypes = bufferTypes()
		return resp, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "list-capabilities",
		Method:      http.MethodGet,
		Path:        "/api/capabilities",
		Summary:     "Capabilities",
		Description: "List the V4L2 capability bits and their canonical names",
		Tags:        []string{"reference"},
		Security:    []map[string][]string{},
	}, func(_ context.Context, _ *struct{}) (*models.CapabilitiesResponse, error) {
		resp := &models.CapabilitiesResponse{}
		resp.Body.Capabilities = capabilityTable()
		return resp, nil
	})
}
