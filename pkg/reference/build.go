package reference

// Boundary addresses a port on the enclosing blueprint itself.
func Boundary(directionIn bool, port string) Info {
	return Info{DirectionIn: directionIn, Port: port}
}

// Instance addresses a port on the named operator or blueprint delegate.
func Instance(name string, directionIn bool, port string) Info {
	return Info{Instance: name, DirectionIn: directionIn, Port: port}
}

// WithDelegate returns a copy of i addressing delegate.
func (i Info) WithDelegate(delegate string) Info {
	i.Delegate = &delegate
	return i
}

// WithBlueprint returns a copy of i qualified by blueprint.
func (i Info) WithBlueprint(blueprint string) Info {
	i.Blueprint = &blueprint
	return i
}

// DelegateName returns the delegate, or "" when absent.
func (i Info) DelegateName() string {
	if i.Delegate == nil {
		return ""
	}
	return *i.Delegate
}

// BlueprintName returns the blueprint qualifier, or "" when absent.
func (i Info) BlueprintName() string {
	if i.Blueprint == nil {
		return ""
	}
	return *i.Blueprint
}
