package rowan

// Ref is a typed handle on a dependency, declared once by a consumer and
// resolved on use.
type Ref[T any] struct {
	c     *Container
	token string
}

// Reference declares that origin depends on token and returns a handle for
// it. The declaration is recorded with [Container.AddReference] straight
// away, whether or not the handle is ever used, so
// [Container.ValidateReferences] sees it.
//
//	var sessionRef = rowan.Reference[*Session](c, "Session", "Handler")
//
//	func (h *Handler) Serve() error {
//		sess, err := sessionRef.Get(h)
//		...
//	}
func Reference[T any](c *Container, token, origin string) Ref[T] {
	c.AddReference(token, origin)
	return Ref[T]{c: c, token: token}
}

// Token returns the referenced token.
func (r Ref[T]) Token() string {
	return r.token
}

// Get resolves the dependency for owner, preferring owner's scope resolver
// (see [Container.Lookup]). A nil owner resolves from the container.
func (r Ref[T]) Get(owner any) (T, error) {
	return Resolve[T](ownerResolver{c: r.c, owner: owner}, r.token)
}

// ownerResolver adapts Container.Lookup to the Resolver interface.
type ownerResolver struct {
	c     *Container
	owner any
}

func (o ownerResolver) Resolve(token string) (any, error) {
	return o.c.Lookup(o.owner, token)
}
