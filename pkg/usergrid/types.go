package usergrid

// Entity is an opaque JSON object belonging to a named collection. The
// service does not enforce a schema, so all field access is defensive.
type Entity map[string]interface{}

// UUID returns the entity's unique identifier, or "" if absent.
func (e Entity) UUID() string {
	id, _ := e["uuid"].(string)

	return id
}

// Metadata returns the entity's metadata sub-mapping, or nil if absent.
func (e Entity) Metadata() map[string]interface{} {
	meta, _ := e["metadata"].(map[string]interface{})

	return meta
}

// Connections returns the entity's outgoing relationship edges as a map of
// edge name to traversal endpoint, or nil when none are recorded.
func (e Entity) Connections() map[string]string {
	return e.edges("connections")
}

// Connecting returns the entity's incoming relationship edges, or nil.
func (e Entity) Connecting() map[string]string {
	return e.edges("connecting")
}

func (e Entity) edges(key string) map[string]string {
	meta := e.Metadata()
	if meta == nil {
		return nil
	}

	raw, ok := meta[key].(map[string]interface{})
	if !ok {
		return nil
	}

	edges := make(map[string]string, len(raw))

	for name, endpoint := range raw {
		path, ok := endpoint.(string)
		if !ok {
			continue
		}

		edges[name] = path
	}

	if len(edges) == 0 {
		return nil
	}

	return edges
}

// Page is one page of a collection listing. A non-empty Cursor means more
// pages may exist; an empty Cursor is the sole authoritative termination
// signal.
type Page struct {
	Entities []Entity `json:"entities" yaml:"entities"`
	Cursor   string   `json:"cursor,omitempty" yaml:"cursor,omitempty"`
}

// Actor is the activity-stream actor shape extracted from a user entity.
type Actor struct {
	UUID        string `json:"uuid"        yaml:"uuid"`
	DisplayName string `json:"displayName" yaml:"displayName"`
	Username    string `json:"username"    yaml:"username"`
	Email       string `json:"email"       yaml:"email"`
	Picture     string `json:"picture"     yaml:"picture"`
}

// ActorFromUser extracts an Actor from a user entity. The display name falls
// back to the username; picture and email default to empty strings.
func ActorFromUser(user Entity) Actor {
	actor := Actor{
		UUID: user.UUID(),
	}

	if username, ok := user["username"].(string); ok {
		actor.Username = username
		actor.DisplayName = username
	}

	if name, ok := user["name"].(string); ok {
		actor.DisplayName = name
	}

	if picture, ok := user["picture"].(string); ok {
		actor.Picture = picture
	}

	if email, ok := user["email"].(string); ok {
		actor.Email = email
	}

	return actor
}
