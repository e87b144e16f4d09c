package manifest

import "pagebuilder/internal/domain"

// Builtin returns the manifests every registry starts with.
func Builtin() []domain.Manifest {
	free := func(t, name, category string) domain.Manifest {
		return domain.Manifest{
			Type:         t,
			Name:         name,
			Category:     category,
			Movable:      true,
			Deletable:    true,
			Duplicatable: true,
		}
	}
	container := func(m domain.Manifest) domain.Manifest {
		m.IsContainer = true
		return m
	}
	resizable := func(m domain.Manifest, desktop, mobile domain.SizeConstraints) domain.Manifest {
		m.Resizable = true
		m.Sizes = map[domain.Breakpoint]domain.SizeConstraints{
			domain.BreakpointDesktop: desktop,
			domain.BreakpointMobile:  mobile,
		}
		return m
	}
	// site chrome stays where the layout puts it
	pinned := func(m domain.Manifest) domain.Manifest {
		m.Movable = false
		m.Duplicatable = false
		return m
	}

	return []domain.Manifest{
		free("text", "Text", "basic"),
		free("heading", "Heading", "basic"),
		free("button", "Button", "basic"),
		resizable(free("image", "Image", "media"),
			domain.SizeConstraints{MinWidth: 32, MaxWidth: 1920, MinHeight: 32, MaxHeight: 1200},
			domain.SizeConstraints{MinWidth: 32, MaxWidth: 480, MinHeight: 32, MaxHeight: 800}),
		resizable(container(free("container", "Container", "layout")),
			domain.SizeConstraints{MinWidth: 80, MinHeight: 40},
			domain.SizeConstraints{MinWidth: 80, MaxWidth: 480, MinHeight: 40}),
		container(free("hero", "Hero", "layout")),
		container(free("card", "Card", "layout")),
		container(free("form", "Form", "forms")),
		pinned(container(free("navbar", "Navigation bar", "site"))),
		pinned(container(free("footer", "Footer", "site"))),
	}
}
