package asset

import "path/filepath"

// DefaultConfig is written by -init-config and documents every setting
const DefaultConfig = `# vi-ecs configuration

[log]
level = "info"
encoding = "console"
file = "vi-ecs.log"
queue_size = 1024

[engine]
tick_ms = 16
physics_step_ms = 16
max_physics_steps = 4
gravity_x = 0.0
gravity_y = 9.8

[input]
hold_ms = 600

[input.actions.quit]
keys = ["Ctrl-C", "Esc"]
trigger = "pressed"

[input.actions.pause]
keys = ["p"]
trigger = "pressed"

[input.actions.save]
keys = ["Ctrl-S"]
trigger = "pressed"

[audio]
enabled = true
sample_rate = 44100
volume = 0.5

[scene]
path = "scenes/demo.json"
save_path = "scenes/saved.json"
scripts = "scripts"
`

// DemoScene is loaded when the configured scene file does not exist
const DemoScene = `{
  "settings": {"music": "drone"},
  "entities": [
    {
      "guid": "6f1c9a52-3c1e-4a1b-9a57-0d3f2b1c7e01",
      "tag": "player",
      "id": 0,
      "components": [
        {"cTransform": {"position": {"x": 10, "y": 5}, "scale": {"x": 1, "y": 1}, "rotation": 0}},
        {"cSprite": {"glyph": "@", "fg": "yellow", "bg": "default", "layer": 2, "visible": true}},
        {"cRigidBody": {"type": "kinematic", "velocity": {"x": 0, "y": 0}, "angularVelocity": 0, "gravityScale": 0, "mass": 1, "fixedRotation": true}},
        {"cCollider": {"offset": {"x": 0, "y": 0}, "halfExtents": {"x": 0.5, "y": 0.5}, "sensor": false}},
        {"cInput": {"actions": [
          {"name": "left", "trigger": "held", "allowRepeat": false, "keys": ["h", "Left"], "mouseButtons": []},
          {"name": "right", "trigger": "held", "allowRepeat": false, "keys": ["l", "Right"], "mouseButtons": []},
          {"name": "up", "trigger": "held", "allowRepeat": false, "keys": ["k", "Up"], "mouseButtons": []},
          {"name": "down", "trigger": "held", "allowRepeat": false, "keys": ["j", "Down"], "mouseButtons": []}
        ]}},
        {"cScript": {"name": "player"}}
      ]
    },
    {
      "guid": "6f1c9a52-3c1e-4a1b-9a57-0d3f2b1c7e02",
      "tag": "orbiter",
      "id": 1,
      "parentGuid": "6f1c9a52-3c1e-4a1b-9a57-0d3f2b1c7e01",
      "components": [
        {"cTransform": {"position": {"x": 4, "y": 0}, "scale": {"x": 1, "y": 1}, "rotation": 0}},
        {"cSprite": {"glyph": "o", "fg": "aqua", "bg": "default", "layer": 1, "visible": true, "frames": "oO0O", "frameMs": 150}},
        {"cScript": {"name": "spin"}}
      ]
    },
    {
      "guid": "6f1c9a52-3c1e-4a1b-9a57-0d3f2b1c7e03",
      "tag": "crate",
      "id": 2,
      "components": [
        {"cTransform": {"position": {"x": 30, "y": 2}, "scale": {"x": 1, "y": 1}, "rotation": 0}},
        {"cSprite": {"glyph": "#", "fg": "olive", "bg": "default", "layer": 1, "visible": true}},
        {"cRigidBody": {"type": "dynamic", "velocity": {"x": 0, "y": 0}, "angularVelocity": 0, "gravityScale": 1, "mass": 1, "fixedRotation": true}},
        {"cCollider": {"offset": {"x": 0, "y": 0}, "halfExtents": {"x": 0.5, "y": 0.5}, "sensor": false}},
        {"cScript": {"name": "lua:bounce.lua"}}
      ]
    },
    {
      "guid": "6f1c9a52-3c1e-4a1b-9a57-0d3f2b1c7e04",
      "tag": "ambience",
      "id": 3,
      "components": [
        {"cAudioSource": {"track": "chime", "volume": 0.4, "loop": false, "autoPlay": true}}
      ]
    }
  ]
}
`

// BounceScript keeps the demo crate inside the play area
const BounceScript = `
local floor = 20

function on_create(e)
  e.log("crate ready")
end

function on_update(e, dt)
  local x, y = e.position()
  if y > floor then
    e.set_position(x, 0)
  end
end
`

// Builtin returns a read-only file system holding the demo scene and its Lua script
// at the default configured locations
func Builtin(scenePath, scriptRoot string) *MemFS {
	script := filepath.Join(scriptRoot, "bounce.lua")
	m := NewMemFS(map[string][]byte{
		scenePath: []byte(DemoScene),
		script:    []byte(BounceScript),
	})
	m.SetReadOnly(true)
	return m
}
