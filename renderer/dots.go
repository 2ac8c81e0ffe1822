package renderer

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// aaMargin is the extra quad padding in pixels beyond radius + feather, so
// the smoothstep transition zone is never cut off by the quad edge.
const aaMargin = 1.0

// DotRenderer issues one instanced draw of screen-aligned quad impostors per
// frame. The fragment stage computes a signed-distance circle mask with an
// antialiased feather and samples the gradient by projecting the dot's
// animated pixel position onto the gradient axis. Output is premultiplied.
type DotRenderer struct {
	shader   rl.Shader
	mesh     rl.Mesh
	material rl.Material

	radiusScaleLoc int32
	canvasSizeLoc  int32
	dotRadiusLoc   int32
	smoothingLoc   int32
	gradStartLoc   int32
	gradEndLoc     int32
	gradStopsLoc   int32
	gradColorsLoc  int32
	gradCountLoc   int32

	colorScratch [MaxGradientStops * 4]float32
}

// NewDotRenderer loads the dot shader and the shared unit quad mesh.
// Failure to create these resources is unrecoverable: there is no degraded
// rendering mode, so construction fails outright.
func NewDotRenderer(vsPath, fsPath string) (*DotRenderer, error) {
	shader := rl.LoadShader(vsPath, fsPath)
	if !rl.IsShaderValid(shader) {
		return nil, fmt.Errorf("loading dot shader (%s, %s) failed", vsPath, fsPath)
	}

	// Instancing wiring: per-instance model matrices arrive through the
	// instanceTransform vertex attribute.
	shader.UpdateLocation(rl.ShaderLocMatrixMvp, rl.GetShaderLocation(shader, "mvp"))
	shader.UpdateLocation(rl.ShaderLocMatrixModel, rl.GetShaderLocationAttrib(shader, "instanceTransform"))

	d := &DotRenderer{
		shader:         shader,
		radiusScaleLoc: rl.GetShaderLocation(shader, "radiusScale"),
		canvasSizeLoc:  rl.GetShaderLocation(shader, "canvasSize"),
		dotRadiusLoc:   rl.GetShaderLocation(shader, "dotRadius"),
		smoothingLoc:   rl.GetShaderLocation(shader, "smoothing"),
		gradStartLoc:   rl.GetShaderLocation(shader, "gradStart"),
		gradEndLoc:     rl.GetShaderLocation(shader, "gradEnd"),
		gradStopsLoc:   rl.GetShaderLocation(shader, "gradStops"),
		gradColorsLoc:  rl.GetShaderLocation(shader, "gradColors"),
		gradCountLoc:   rl.GetShaderLocation(shader, "gradCount"),
	}

	d.mesh = rl.GenMeshPlane(1, 1, 1, 1)
	d.material = rl.LoadMaterialDefault()
	d.material.Shader = shader

	return d, nil
}

// quadSize returns the full impostor quad edge in pixels for the frame.
func quadSize(u *FrameUniforms) float32 {
	return 2 * (u.DotRadius + u.Smoothing + aaMargin)
}

// UploadInstances builds the per-instance transforms for the slot from the
// pixel-space positions the simulation wrote. The simulation step has fully
// completed by the time this runs, so the draw never reads half-written
// positions.
func (d *DotRenderer) UploadInstances(slot *FrameSlot) {
	quad := quadSize(&slot.Uniforms)
	scale := rl.MatrixScale(quad, quad, 1)
	for i := 0; i < slot.Count; i++ {
		p := slot.Positions[i]
		slot.Transforms[i] = rl.MatrixMultiply(scale, rl.MatrixTranslate(p.X, p.Y, 0))
	}
}

// Draw issues the instanced draw for the slot. Skipped entirely when the
// slot holds no instances.
func (d *DotRenderer) Draw(slot *FrameSlot) {
	if slot.Count == 0 {
		return
	}

	u := &slot.Uniforms
	quadHalf := quadSize(u) / 2
	radius := u.DotRadius
	if radius < 1 {
		radius = 1
	}

	rl.SetShaderValue(d.shader, d.radiusScaleLoc, []float32{quadHalf / radius}, rl.ShaderUniformFloat)
	rl.SetShaderValue(d.shader, d.canvasSizeLoc, []float32{u.CanvasW, u.CanvasH}, rl.ShaderUniformVec2)
	rl.SetShaderValue(d.shader, d.dotRadiusLoc, []float32{u.DotRadius}, rl.ShaderUniformFloat)
	rl.SetShaderValue(d.shader, d.smoothingLoc, []float32{u.Smoothing}, rl.ShaderUniformFloat)
	rl.SetShaderValue(d.shader, d.gradStartLoc, u.GradientStart[:], rl.ShaderUniformVec2)
	rl.SetShaderValue(d.shader, d.gradEndLoc, u.GradientEnd[:], rl.ShaderUniformVec2)
	rl.SetShaderValue(d.shader, d.gradStopsLoc, u.Stops[:], rl.ShaderUniformVec4)
	rl.SetShaderValue(d.shader, d.gradCountLoc, []float32{float32(u.StopCount)}, rl.ShaderUniformFloat)

	for i := range u.Colors {
		copy(d.colorScratch[i*4:], u.Colors[i][:])
	}
	rl.SetShaderValueV(d.shader, d.gradColorsLoc, d.colorScratch[:], rl.ShaderUniformVec4, MaxGradientStops)

	rl.BeginBlendMode(rl.BlendAlphaPremultiply)
	rl.DrawMeshInstanced(d.mesh, d.material, slot.Transforms[:slot.Count], slot.Count)
	rl.EndBlendMode()
}

// Unload releases GPU resources.
func (d *DotRenderer) Unload() {
	rl.UnloadMesh(&d.mesh)
	rl.UnloadShader(d.shader)
}
