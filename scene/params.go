package scene

import (
	"forward-renderer/gpu"
	"forward-renderer/math"
)

// Shader parameter names. Materials, the shadow pass and the sky bind by
// these names; the shaders must declare the ones they read.
const (
	ParamWorld             = "world"
	ParamWorldInvTranspose = "worldInvTranspose"
	ParamView              = "view"
	ParamProjection        = "projection"
	ParamLightView         = "lightView"
	ParamLightProjection   = "lightProjection"

	ParamColorTint      = "colorTint"
	ParamUVScale        = "scale"
	ParamUVOffset       = "offset"
	ParamRoughness      = "roughness"
	ParamCameraPosition = "cameraPosition"
	ParamAmbient        = "ambient"
	ParamLights         = "lights"
	ParamLightCount     = "lightCount"

	// Material slots of the PBR pixel shader.
	SlotAlbedo       = "Albedo"
	SlotNormalMap    = "NormalMap"
	SlotRoughnessMap = "RoughnessMap"
	SlotMetalnessMap = "MetalnessMap"
	SlotBasicSampler = "BasicSampler"

	SlotShadowMap     = "ShadowMap"
	SlotShadowSampler = "ShadowSampler"
	SlotSkyTexture    = "SkyTexture"
)

// rendererSlots are bound by the renderer for every material.
var rendererSlots = map[string]gpu.ParamKind{
	SlotShadowMap:     gpu.ParamTexture,
	SlotShadowSampler: gpu.ParamSampler,
}

// FrameParams is the per-frame state shared by every material binding.
type FrameParams struct {
	View           math.Mat4
	Projection     math.Mat4
	CameraPosition math.Vec3

	Ambient    math.Vec3
	Lights     []byte // LightSet.Pack output
	LightCount int

	LightView       math.Mat4
	LightProjection math.Mat4
	ShadowMap       gpu.Texture
	ShadowSampler   gpu.Sampler
}
