package pipeline

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrContainerNotFound is returned when the task definition has no container
// with the configured name.
var ErrContainerNotFound = errors.New("container not found in task definition")

// Fields ECS adds to a described task definition that register-task-definition rejects.
var readOnlyTaskDefinitionFields = []string{
	"compatibilities",
	"deregisteredAt",
	"registeredAt",
	"registeredBy",
	"requiresAttributes",
	"revision",
	"status",
	"taskDefinitionArn",
}

// RenderTaskDefinition sets the image of the named container and returns the
// document ready for register-task-definition. Unknown fields are preserved.
func RenderTaskDefinition(raw []byte, container, image string) ([]byte, error) {
	var doc map[string]any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("parse task definition: %w", err)
	}
	if doc == nil {
		return nil, errors.New("parse task definition: document is empty")
	}
	for _, f := range readOnlyTaskDefinitionFields {
		delete(doc, f)
	}

	defs, _ := doc["containerDefinitions"].([]any)
	found := false
	for _, d := range defs {
		def, ok := d.(map[string]any)
		if !ok {
			continue
		}
		if name, _ := def["name"].(string); name == container {
			def["image"] = image
			found = true
		}
	}
	if !found {
		return nil, fmt.Errorf("%w: %q", ErrContainerNotFound, container)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encode task definition: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// containerImage returns the image of the named container, or "".
func containerImage(raw []byte, container string) string {
	var doc struct {
		ContainerDefinitions []struct {
			Name  string `json:"name"`
			Image string `json:"image"`
		} `json:"containerDefinitions"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return ""
	}
	for _, d := range doc.ContainerDefinitions {
		if d.Name == container {
			return d.Image
		}
	}
	return ""
}

// parseRegisteredARN extracts the new revision ARN from register-task-definition output.
func parseRegisteredARN(out []byte) (string, error) {
	var resp struct {
		TaskDefinition struct {
			TaskDefinitionArn string `json:"taskDefinitionArn"`
		} `json:"taskDefinition"`
	}
	if err := json.Unmarshal(out, &resp); err != nil {
		return "", fmt.Errorf("parse register-task-definition output: %w", err)
	}
	if resp.TaskDefinition.TaskDefinitionArn == "" {
		return "", errors.New("register-task-definition returned no taskDefinitionArn")
	}
	return resp.TaskDefinition.TaskDefinitionArn, nil
}
