// ABOUTME: Package director turns room context into a structured multi-turn plan.
// ABOUTME: Shapes the provider request, enforces the reply shape, never propagates parse errors.
package director
