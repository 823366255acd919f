package identity

import (
	"context"
	"sync"
)

// Context is one sign-in scope.
type Context struct {
	name string
	p    *Provider

	mu        sync.Mutex
	current   *User
	listeners map[int]func(*User)
	nextID    int
}

func (c *Context) Name() string { return c.name }

// Current returns the signed-in user, or nil.
func (c *Context) Current() *User {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return nil
	}
	u := *c.current
	return &u
}

// OnChange registers fn for session changes. fn is called once right away with
// the current state, then on every sign-in and sign-out.
func (c *Context) OnChange(fn func(*User)) (unsubscribe func()) {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = fn
	cur := c.current
	c.mu.Unlock()

	fn(copyUser(cur))

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.listeners, id)
			c.mu.Unlock()
		})
	}
}

func (c *Context) SignInWithPassword(ctx context.Context, email, password string) (User, error) {
	u, err := c.p.verify(ctx, email, password)
	if err != nil {
		return User{}, err
	}
	c.set(&u)
	return u, nil
}

// CreateUserWithPassword creates a new identity and signs it into this
// context, replacing whoever was signed in here before.
func (c *Context) CreateUserWithPassword(ctx context.Context, email, password string) (User, error) {
	u, err := c.p.createCredential(ctx, email, password)
	if err != nil {
		return User{}, err
	}
	c.set(&u)
	return u, nil
}

func (c *Context) SignOut() {
	c.mu.Lock()
	signedIn := c.current != nil
	c.mu.Unlock()
	if signedIn {
		c.set(nil)
	}
}

func (c *Context) set(u *User) {
	c.mu.Lock()
	c.current = u
	fns := make([]func(*User), 0, len(c.listeners))
	for _, fn := range c.listeners {
		fns = append(fns, fn)
	}
	c.mu.Unlock()

	for _, fn := range fns {
		fn(copyUser(u))
	}
}

func copyUser(u *User) *User {
	if u == nil {
		return nil
	}
	cp := *u
	return &cp
}
