package checklist

import "inspection-system/internal/entities"

type TemplateItem struct {
	Title        string
	ResponseType entities.ResponseType
	Options      []string
}

type TemplateSection struct {
	Title string
	Items []TemplateItem
}

func opt(title string, options ...string) TemplateItem {
	return TemplateItem{Title: title, ResponseType: entities.ResponseOptions, Options: options}
}

// DefaultTemplate is the stock inspection checklist. Section and item order
// follow slice order, starting at 1.
var DefaultTemplate = []TemplateSection{
	{
		Title: "Identificação do Veículo",
		Items: []TemplateItem{
			{Title: "Tipo (Carro/Moto/Van)", ResponseType: entities.ResponseAutofill},
			{Title: "Modelo", ResponseType: entities.ResponseAutofill},
			{Title: "Placa", ResponseType: entities.ResponseAutofill},
			{Title: "KM Atual", ResponseType: entities.ResponseText},
			{Title: "Motorista responsável", ResponseType: entities.ResponseAutofill},
			{Title: "Data e hora da inspeção", ResponseType: entities.ResponseDateTime},
		},
	},
	{
		Title: "Condição Externa",
		Items: []TemplateItem{
			opt("Pintura", "Ok", "Arranhões", "Amassados"),
			opt("Para-choques", "Ok", "Danificados"),
			opt("Retrovisores", "Ok", "Trincado", "Faltando"),
			opt("Vidros", "Ok", "Trincados", "Rachados"),
			opt("Faróis", "Ok", "Queimado", "Sujo"),
			opt("Lanternas", "Ok", "Queimado"),
			opt("Pneus dianteiros", "Bons", "Gasto", "Trocar"),
			opt("Pneus traseiros", "Bons", "Gasto", "Trocar"),
			opt("Estepe", "Ok", "Vazio", "Ausente"),
			opt("Calotas / Rodas", "Ok", "Danificadas"),
		},
	},
	{
		Title: "Condição Interna",
		Items: []TemplateItem{
			opt("Banco do motorista", "Ok", "Rasgado"),
			opt("Bancos passageiros", "Ok", "Rasgado"),
			opt("Painel", "Ok", "Luz de alerta"),
			opt("Ar-condicionado", "Gelando", "Fraco", "Não funciona"),
			opt("Som/Multimídia", "Ok", "Não funciona"),
			opt("Travas elétricas", "Ok", "Defeito"),
			opt("Vidros elétricos", "Ok", "Defeito"),
			opt("Cintos de segurança", "Ok", "Danificado"),
			opt("Limpeza interna", "Limpo", "Sujo"),
		},
	},
	{
		Title: "Itens de Segurança",
		Items: []TemplateItem{
			opt("Extintor", "Dentro da validade", "Vencido"),
			opt("Triângulo", "Ok", "Faltando"),
			opt("Macaco", "Ok", "Faltando"),
			opt("Chave de roda", "Ok", "Faltando"),
			opt("Kit primeiros socorros", "Ok", "Incompleto"),
			opt("Capacete (motos)", "Ok", "Viseira ruim", "Trocar"),
		},
	},
	{
		Title: "Parte Mecânica",
		Items: []TemplateItem{
			opt("Óleo do motor", "Ok", "Baixo", "Vazando"),
			opt("Água do radiador", "Ok", "Baixa"),
			opt("Freios", "Ok", "Chiando", "Fraco"),
			opt("Embreagem (carros)", "Ok", "Patinando"),
			opt("Corrente (motos)", "Ok", "Frouxa", "Ressecada"),
			opt("Bateria", "Ok", "Fraca"),
			opt("Direção", "Ok", "Dura", "Barulho"),
			opt("Suspensão", "Ok", "Ruído"),
			opt("Vazamentos visíveis", "Sim", "Não"),
		},
	},
	{
		Title: "Limpeza",
		Items: []TemplateItem{
			opt("Lavagem externa", "Feita", "Necessário"),
			opt("Lavagem interna", "Feita", "Necessário"),
			opt("Higienização dos bancos", "Ok", "Necessário"),
			opt("Porta-malas", "Ok", "Necessário"),
			opt("Motor", "Ok", "Necessário"),
		},
	},
	{
		Title: "Documentação",
		Items: []TemplateItem{
			opt("Documento do veículo", "No veículo", "Faltando"),
			opt("IPVA", "Pago", "Pendente"),
			opt("Licenciamento", "Ok", "Vencido"),
			opt("Seguro", "Ok", "Pendente"),
		},
	},
}
