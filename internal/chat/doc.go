// ABOUTME: Package chat holds the shared domain model for the chatroom engine.
// ABOUTME: Defines personalities, agents, rooms, messages, and director turn plans.
package chat
