// file: internals/route/details/chat_routes.go
package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"tutorin_backend/internals/constants"
	chatController "tutorin_backend/internals/features/chats/chats/controller"
	authMiddleware "tutorin_backend/internals/middlewares/auth"
	"tutorin_backend/internals/notifier"
)

func ChatRoutes(app *fiber.App, db *gorm.DB, events notifier.Publisher) {
	chatCtrl := chatController.NewChatController(db, events)
	proposalCtrl := chatController.NewProposalController(db, events)

	chats := app.Group("/api/chats", authMiddleware.AuthMiddleware(db))
	chats.Get("/", chatCtrl.List)
	chats.Get("/:id", chatCtrl.GetByID)
	chats.Get("/:id/messages", chatCtrl.ListMessages)
	chats.Post("/:id/messages", chatCtrl.SendMessage)

	proposals := app.Group("/api/proposals", authMiddleware.AuthMiddleware(db))
	proposals.Post("/",
		authMiddleware.OnlyRoles(constants.RoleErrorTutor("membuat penawaran sesi"), constants.RoleTutor),
		proposalCtrl.Propose)
	proposals.Post("/:id/accept", proposalCtrl.Accept)
	proposals.Post("/:id/reject", proposalCtrl.Reject)
}
