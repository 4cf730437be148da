package component

// CameraRig is the orbit camera's view of the world. Yaw is in degrees around
// the up axis; Ready is false until the rig has a valid pose.
type CameraRig struct {
	Yaw   float64
	Pitch float64
	Ready bool
}

var CameraRigComponent = NewComponent[CameraRig]()
