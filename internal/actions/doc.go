// ABOUTME: Package actions resolves planned side effects into renderable content.
// ABOUTME: Four independent resolvers: image, video, web search, maps search.
package actions
