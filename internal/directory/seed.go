package directory

import (
	"time"

	"github.com/ghoxt-77/Multi-Verse-Chat/internal/types"
)

func seedTime(hour, min int) time.Time {
	return time.Date(2023, time.April, 5, hour, min, 0, 0, time.UTC)
}

var seedUsers = []types.User{
	{Id: "user-1", Name: "GameMaster", Avatar: "https://i.pravatar.cc/100?img=1", Online: true},
	{Id: "user-2", Name: "Pixel_Wizard", Avatar: "https://i.pravatar.cc/100?img=2", Online: true},
	{Id: "user-3", Name: "NerdQueen", Avatar: "https://i.pravatar.cc/100?img=3", Online: false},
	{Id: "user-4", Name: "RPG_Lover", Avatar: "https://i.pravatar.cc/100?img=4", Online: true},
	{Id: "user-5", Name: "TechGuru", Avatar: "https://i.pravatar.cc/100?img=5", Online: true},
}

var seedCurrentUser = types.User{
	Id:     "current",
	Name:   "Você",
	Avatar: "https://i.pravatar.cc/100?img=68",
	Online: true,
}

var seedCategories = []types.Category{
	{
		Id:   "cat-1",
		Name: "Mundo Geek",
		Channels: []types.Channel{
			{
				Id:          "channel-1",
				Name:        "Quadrinhos e Mangás",
				Icon:        "📚",
				Description: "Discussões sobre histórias em quadrinhos, mangás e graphic novels",
				Seed: []types.Message{
					{Id: "msg-1", UserId: "user-1", Timestamp: seedTime(14, 30), Kind: types.KindText, Body: "Quem está acompanhando o novo arco de One Piece?"},
					{Id: "msg-2", UserId: "user-2", Timestamp: seedTime(14, 32), Kind: types.KindText, Body: "Eu estou! A saga de Wano está incrível, mal posso esperar para ver como termina!"},
					{Id: "msg-3", UserId: "user-3", Timestamp: seedTime(14, 35), Kind: types.KindText, Body: "Vocês viram os últimos lançamentos da DC? Estou adorando as novas histórias do Batman."},
				},
			},
			{
				Id:          "channel-2",
				Name:        "Filmes e Séries",
				Icon:        "🎬",
				Description: "Cinema, séries de TV e streaming",
				Seed: []types.Message{
					{Id: "msg-4", UserId: "user-4", Timestamp: seedTime(15, 10), Kind: types.KindText, Body: "O que acharam da nova temporada de The Witcher?"},
					{Id: "msg-5", UserId: "user-5", Timestamp: seedTime(15, 15), Kind: types.KindText, Body: "Preferi os livros, mas a série também está bem legal. A caracterização dos monstros está incrível!"},
				},
			},
			{
				Id:          "channel-3",
				Name:        "Cosplay",
				Icon:        "👘",
				Description: "Compartilhe suas criações e dicas de cosplay",
			},
		},
	},
	{
		Id:   "cat-2",
		Name: "Jogos",
		Channels: []types.Channel{
			{
				Id:          "channel-4",
				Name:        "RPG",
				Icon:        "🎲",
				Description: "Role-Playing Games de todos os tipos",
				Seed: []types.Message{
					{Id: "msg-6", UserId: "user-2", Timestamp: seedTime(16, 0), Kind: types.KindText, Body: "Alguém jogando o novo Baldur's Gate?"},
					{Id: "msg-7", UserId: "user-1", Timestamp: seedTime(16, 5), Kind: types.KindText, Body: "Estou jogando! O sistema baseado em D&D 5e está fantástico!"},
				},
			},
			{
				Id:          "channel-5",
				Name:        "FPS",
				Icon:        "🔫",
				Description: "First-Person Shooters",
				Seed: []types.Message{
					{Id: "msg-8", UserId: "user-3", Timestamp: seedTime(17, 0), Kind: types.KindText, Body: "Vamos montar um squad para jogar Valorant hoje à noite?"},
				},
			},
			{
				Id:          "channel-6",
				Name:        "Estratégia",
				Icon:        "♟️",
				Description: "Jogos de estratégia e táticas",
			},
			{
				Id:          "channel-7",
				Name:        "Indie Games",
				Icon:        "🎮",
				Description: "Joias independentes e hidden gems",
			},
		},
	},
	{
		Id:   "cat-3",
		Name: "Desenvolvedores",
		Channels: []types.Channel{
			{
				Id:          "channel-8",
				Name:        "EA Games",
				Icon:        "🏈",
				Description: "Notícias e discussões sobre EA Games",
				Seed: []types.Message{
					{Id: "msg-9", UserId: "user-4", Timestamp: seedTime(18, 0), Kind: types.KindText, Body: "O que esperar do próximo FIFA?"},
				},
			},
			{
				Id:          "channel-9",
				Name:        "Nintendo",
				Icon:        "🍄",
				Description: "Tudo sobre a Nintendo e seus títulos",
				Seed: []types.Message{
					{Id: "msg-10", UserId: "user-5", Timestamp: seedTime(19, 0), Kind: types.KindText, Body: "Quando vocês acham que teremos notícias do próximo Zelda?"},
					{Id: "msg-11", UserId: "user-1", Timestamp: seedTime(19, 5), Kind: types.KindText, Body: "Espero que em breve! Mal posso esperar para ver o que vem depois de Tears of the Kingdom."},
				},
			},
			{
				Id:          "channel-10",
				Name:        "Sony",
				Icon:        "🎮",
				Description: "PlayStation e estúdios da Sony",
			},
			{
				Id:          "channel-11",
				Name:        "Indie Studios",
				Icon:        "🧩",
				Description: "Estúdios independentes e seus projetos",
			},
		},
	},
}

// Default returns the built-in GeekVerse catalog.
func Default() *Directory {
	d, err := New(seedCategories, seedUsers, seedCurrentUser)
	if err != nil {
		// the built-in catalog is known-good
		panic(err)
	}
	return d
}
